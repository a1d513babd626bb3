// Command importer bulk-loads rows from an external MySQL, PostgreSQL, or
// SQLite table into a running join-server instance, over the same
// line protocol a normal client speaks. The source table must already
// match the shape (id INTEGER PRIMARY KEY, name TEXT) this server expects.
package main

import (
	"bufio"
	"database/sql"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ansochnev/join-server/internal/logging"
)

func main() {
	var (
		driver     = flag.String("driver", "", "source driver: mysql, postgres, or sqlite")
		dsn        = flag.String("dsn", "", "data source name for the chosen driver")
		sourceSQL  = flag.String("query", "", "SELECT query returning (id, name) rows from the source")
		targetAddr = flag.String("target", "127.0.0.1:9000", "join-server address")
		targetTbl  = flag.String("table", "A", "destination table name on the join-server")
	)
	flag.Parse()

	logger := logging.New("importer")

	if *driver == "" || *dsn == "" || *sourceSQL == "" {
		fmt.Println("usage: importer -driver {mysql|postgres|sqlite} -dsn <dsn> -query <select-sql> [-target host:port] [-table NAME]")
		os.Exit(1)
	}

	db, err := sql.Open(*driver, *dsn)
	if err != nil {
		logger.Fatalf("open %s source: %v", *driver, err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("ping %s source: %v", *driver, err)
	}

	rows, err := db.Query(*sourceSQL)
	if err != nil {
		logger.Fatalf("query source: %v", err)
	}
	defer rows.Close()

	conn, err := net.Dial("tcp", *targetAddr)
	if err != nil {
		logger.Fatalf("connect to join-server at %s: %v", *targetAddr, err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	count := 0
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			logger.Fatalf("scan row: %v", err)
		}
		cmd := fmt.Sprintf("INSERT %s %d %s\n", *targetTbl, id, strings.ReplaceAll(name, " ", "_"))
		if _, err := conn.Write([]byte(cmd)); err != nil {
			logger.Fatalf("write to join-server: %v", err)
		}
		if err := drainStatus(reader); err != nil {
			logger.Printf("row id=%d rejected: %v", id, err)
			continue
		}
		count++
	}
	if err := rows.Err(); err != nil {
		logger.Fatalf("iterate source rows: %v", err)
	}
	logger.Printf("imported %d rows into table %s", count, *targetTbl)
}

// drainStatus reads response lines until the terminal OK/ERR status line.
func drainStatus(reader *bufio.Reader) error {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "OK" {
			return nil
		}
		if strings.HasPrefix(line, "ERR ") {
			return fmt.Errorf("%s", strings.TrimPrefix(line, "ERR "))
		}
	}
}
