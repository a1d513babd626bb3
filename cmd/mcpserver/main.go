// Command mcpserver exposes a running join-server store's query surface as
// MCP tools: query, list_tables, describe_table. It talks to the store
// in-process rather than over the wire, using its own Store, created empty
// at startup; it does not connect to a separately running joinserver and
// does not see that server's tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ansochnev/join-server/internal/interp"
	"github.com/ansochnev/join-server/internal/logging"
	"github.com/ansochnev/join-server/internal/store"
)

type deps struct {
	st     *store.Store
	interp *interp.Interpreter
}

func (d *deps) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := req.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}

	sel, err := d.interp.Execute(sql)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	if sel == nil {
		return mcp.NewToolResultText("OK"), nil
	}
	defer sel.Close()

	var sb strings.Builder
	sb.WriteString(strings.Join(sel.ColumnNames(), ","))
	sb.WriteByte('\n')
	rows := 0
	for !sel.End() {
		row, err := store.RowCSV(sel)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("row format error: %v", err)), nil
		}
		sb.WriteString(row)
		sb.WriteByte('\n')
		rows++
		sel.Next()
	}
	sb.WriteString(fmt.Sprintf("(%d rows)", rows))
	return mcp.NewToolResultText(sb.String()), nil
}

func (d *deps) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Only the names A and B are probed, with SELECT *; tables created
	// under any other name are not listed.
	var names []string
	for _, name := range []string{"A", "B"} {
		sel, err := d.st.SelectAll(name)
		if err != nil {
			continue
		}
		sel.Close()
		names = append(names, name)
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (d *deps) handleDescribeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	if table == "" {
		return mcp.NewToolResultError("table parameter is required"), nil
	}
	sel, err := d.st.SelectAll(table)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}
	defer sel.Close()
	return mcp.NewToolResultText(strings.Join(sel.ColumnNames(), ", ")), nil
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8090", "MCP HTTP listen address")
	flag.Parse()

	logger := logging.New("mcp")
	st := store.NewStore()
	d := &deps{st: st, interp: interp.New(st)}

	mcpSrv := mcpserver.NewMCPServer(
		"join-server",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	queryTool := mcp.NewTool("query",
		mcp.WithDescription("Execute a statement against the join-server store: CREATE TABLE, INSERT INTO, DELETE FROM, or SELECT."),
		mcp.WithString("sql", mcp.Description("The statement to execute"), mcp.Required()),
	)
	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List which of the tables A and B currently exist in the store; tables with other names are not listed"),
	)
	describeTool := mcp.NewTool("describe_table",
		mcp.WithDescription("Get the column names of a table"),
		mcp.WithString("table", mcp.Description("The table name"), mcp.Required()),
	)

	mcpSrv.AddTool(queryTool, d.handleQuery)
	mcpSrv.AddTool(listTablesTool, d.handleListTables)
	mcpSrv.AddTool(describeTool, d.handleDescribeTable)

	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath("/mcp"))
	logger.Printf("listening on %s", *addr)
	if err := httpServer.Start(*addr); err != nil {
		logger.Fatalf("mcp server stopped: %v", err)
	}
}
