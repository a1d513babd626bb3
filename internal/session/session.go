// Package session drives one client connection: reads newline-terminated
// requests (at most 1 KiB per read from the connection; longer lines are
// still read whole), translates external verbs, runs them against the
// interpreter, and writes back CSV rows followed by a status line.
package session

import (
	"bufio"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ansochnev/join-server/internal/interp"
	"github.com/ansochnev/join-server/internal/protocol"
	"github.com/ansochnev/join-server/internal/store"
)

const maxRequestBytes = 1024

// Session handles the request/response loop for a single connection.
type Session struct {
	ID     string
	conn   io.ReadWriter
	interp *interp.Interpreter
	logger *log.Logger
}

// New assigns a fresh session ID and wraps conn for line-oriented framing.
func New(conn io.ReadWriter, in *interp.Interpreter, logger *log.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		conn:   conn,
		interp: in,
		logger: logger,
	}
}

// Run reads requests until the connection is closed or errors, handling
// each one in turn. Statements are strictly serialised within a session:
// Run reads, handles, then writes before reading again.
func (s *Session) Run() {
	reader := bufio.NewReaderSize(s.conn, maxRequestBytes)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.logger.Printf("session %s: read error: %v", s.ID, err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		s.handle(line)
	}
}

func (s *Session) handle(line string) {
	sql, err := protocol.Translate(line)
	if err != nil {
		s.writeError(err)
		return
	}
	if sql == "" {
		s.writeOK("")
		return
	}

	sel, err := s.interp.Execute(sql)
	if err != nil {
		s.writeError(err)
		return
	}
	if sel == nil {
		s.writeOK("")
		return
	}
	defer sel.Close()

	var out strings.Builder
	for !sel.End() {
		row, err := store.RowCSV(sel)
		if err != nil {
			s.writeError(err)
			return
		}
		out.WriteString(row)
		out.WriteByte('\n')
		sel.Next()
	}
	s.writeOK(out.String())
}

// writeOK writes body (already newline-terminated per row, or empty) then
// the OK status line. If body doesn't end in a newline, one is inserted
// before the status line.
func (s *Session) writeOK(body string) {
	s.writeBody(body)
	io.WriteString(s.conn, "OK\n")
}

func (s *Session) writeError(err error) {
	s.writeBody("")
	io.WriteString(s.conn, "ERR "+err.Error()+"\n")
}

func (s *Session) writeBody(body string) {
	if body == "" {
		return
	}
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	io.WriteString(s.conn, body)
}
