package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ijzereen/askpg/internal/core/service"
)

func RegisterTools(s *server.MCPServer, agent *service.AgentService, queries *service.QueryService) {
	s.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription("List the inspected tables with their column counts"),
		),
		listTablesHandler(agent),
	)

	s.AddTool(
		mcp.NewTool("describe_table",
			mcp.WithDescription("Describe a table's columns, types, nullability, and primary keys"),
			mcp.WithString("table_name",
				mcp.Required(),
				mcp.Description("Name of the table to describe"),
			),
		),
		describeTableHandler(agent),
	)

	s.AddTool(
		mcp.NewTool("query",
			mcp.WithDescription("Execute a SQL query. Queries run in a read-only transaction with a row limit and timeout enforced server-side."),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("SQL query to execute"),
			),
		),
		queryHandler(queries),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Translate a natural language question into SQL using the inspected schema, execute it, and return the SQL plus the rows"),
			mcp.WithString("question",
				mcp.Required(),
				mcp.Description("Natural language question about the data"),
			),
		),
		askHandler(agent),
	)
}

func listTablesHandler(agent *service.AgentService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap := agent.Snapshot()
		type entry struct {
			Name    string `json:"name"`
			Columns int    `json:"columns"`
		}
		entries := make([]entry, len(snap.Tables))
		for i, t := range snap.Tables {
			entries[i] = entry{Name: t.Name, Columns: len(t.Columns)}
		}

		data, err := json.Marshal(entries)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func describeTableHandler(agent *service.AgentService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, ok := request.GetArguments()["table_name"].(string)
		if !ok || tableName == "" {
			return mcp.NewToolResultError("table_name is required"), nil
		}

		table := agent.Snapshot().Table(tableName)
		if table == nil {
			return mcp.NewToolResultError(fmt.Sprintf("table %q not found", tableName)), nil
		}

		data, err := json.Marshal(table)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func queryHandler(queries *service.QueryService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sql, ok := request.GetArguments()["sql"].(string)
		if !ok || sql == "" {
			return mcp.NewToolResultError("sql is required"), nil
		}

		rs, err := queries.Execute(ctx, sql)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		data, err := json.Marshal(rs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func askHandler(agent *service.AgentService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, ok := request.GetArguments()["question"].(string)
		if !ok || question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}

		res := agent.Ask(ctx, question)
		if !res.OK() {
			return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", res.Err)), nil
		}

		data, err := json.Marshal(res)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
