// Package cli implements the flag-driven entry point and the interactive
// loop. All dependencies are injected so the runner is testable without a
// database or model endpoint.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ijzereen/askpg/internal/config"
	"github.com/ijzereen/askpg/internal/core/domain"
	"github.com/ijzereen/askpg/internal/core/port"
	"github.com/ijzereen/askpg/internal/schemafile"
)

// Agent is the capability surface the CLI drives.
type Agent interface {
	Snapshot() *port.SchemaSnapshot
	Ask(ctx context.Context, question string) port.QueryResult
	ExecuteSQL(ctx context.Context, sql string) port.QueryResult
	ColumnQuery(ctx context.Context, column, condition string) port.QueryResult
}

// Session is an open connection bundle: the agent plus its cleanup.
type Session struct {
	Agent Agent
	Close func()
}

// ConnectFunc dials the database, inspects the schema, and assembles the
// agent. Fatal connection errors surface here, before any mode runs.
type ConnectFunc func(ctx context.Context) (*Session, error)

type App struct {
	Config  *config.Config
	Connect ConnectFunc
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run parses args and dispatches to one mode. It returns the process exit
// code; only one-shot modes fail the process on a failure result.
func (a *App) Run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("askpg", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)

	info := fs.Bool("info", false, "print resolved connection parameters")
	scan := fs.Bool("scan", false, "inspect the schema and print it")
	export := fs.String("export", "", "inspect the schema and write it to a file")
	importPath := fs.String("import", "", "print a previously exported schema file")
	query := fs.String("query", "", "natural language question to run once")
	column := fs.String("column", "", "column to select from the target table")
	condition := fs.String("condition", "", "natural language condition for -column")
	// Consumed in main before the logger is built; declared here so parsing
	// accepts it in any position.
	fs.Bool("verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch {
	case *importPath != "":
		return a.runImport(*importPath)
	case *info:
		return a.runInfo(ctx)
	case *scan:
		return a.runScan(ctx)
	case *export != "":
		return a.runExport(ctx, *export)
	case *query != "":
		return a.runQuery(ctx, *query)
	case *column != "":
		return a.runColumn(ctx, *column, *condition)
	default:
		return a.runInteractive(ctx)
	}
}

func (a *App) runInfo(ctx context.Context) int {
	fmt.Fprintf(a.Stdout, "PostgreSQL: %s\n", a.Config.ConnectionInfo())
	fmt.Fprintf(a.Stdout, "Model: %s @ %s\n", a.Config.LLMModel, a.Config.LLMBaseURL)

	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "connection: failed: %v\n", err)
		return 1
	}
	defer session.Close()

	fmt.Fprintf(a.Stdout, "connection: ok, %d tables\n", len(session.Agent.Snapshot().Tables))
	return 0
}

func (a *App) runScan(ctx context.Context) int {
	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "schema scan failed: %v\n", err)
		return 1
	}
	defer session.Close()

	fmt.Fprint(a.Stdout, domain.FormatSnapshot(session.Agent.Snapshot()))
	return 0
}

func (a *App) runExport(ctx context.Context, path string) int {
	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "schema export failed: %v\n", err)
		return 1
	}
	defer session.Close()

	if err := schemafile.Write(path, session.Agent.Snapshot()); err != nil {
		fmt.Fprintf(a.Stderr, "schema export failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.Stdout, "schema written to %s\n", path)
	return 0
}

func (a *App) runImport(path string) int {
	snap, err := schemafile.Read(path)
	if err != nil {
		fmt.Fprintf(a.Stderr, "schema import failed: %v\n", err)
		return 1
	}
	fmt.Fprint(a.Stdout, domain.FormatSnapshot(snap))
	return 0
}

func (a *App) runQuery(ctx context.Context, question string) int {
	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		return 1
	}
	defer session.Close()

	return a.printResult(session.Agent.Ask(ctx, question))
}

func (a *App) runColumn(ctx context.Context, column, condition string) int {
	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		return 1
	}
	defer session.Close()

	return a.printResult(session.Agent.ColumnQuery(ctx, column, condition))
}

func (a *App) printResult(res port.QueryResult) int {
	if !res.OK() {
		fmt.Fprintf(a.Stderr, "error: %v\n", res.Err)
		return 1
	}
	fmt.Fprintf(a.Stdout, "SQL: %s\n", res.SQL)
	fmt.Fprint(a.Stdout, domain.FormatResultSet(res.Result))
	return 0
}

func (a *App) runInteractive(ctx context.Context) int {
	session, err := a.Connect(ctx)
	if err != nil {
		fmt.Fprintf(a.Stderr, "initialization failed: %v\n", err)
		return 1
	}
	defer session.Close()

	agent := session.Agent
	snap := agent.Snapshot()

	fmt.Fprintf(a.Stdout, "askpg interactive mode, %d tables. Commands: schema, tables, columns, info, quit\n",
		len(snap.Tables))

	scanner := bufio.NewScanner(a.Stdin)
	for {
		fmt.Fprint(a.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.Stdout, "bye")
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Fprintln(a.Stdout, "bye")
			return 0
		case "schema":
			fmt.Fprint(a.Stdout, domain.FormatSnapshot(snap))
			continue
		case "tables":
			fmt.Fprintf(a.Stdout, "tables: %s\n", strings.Join(snap.TableNames(), ", "))
			continue
		case "columns":
			a.printColumns(snap)
			continue
		case "info":
			fmt.Fprintf(a.Stdout, "PostgreSQL: %s\n", a.Config.ConnectionInfo())
			continue
		}

		// A leading column name of the target table runs the fixed-table
		// variant; anything else is a full natural-language question.
		res := a.dispatchQuestion(ctx, agent, snap, line)
		if res.OK() {
			fmt.Fprintf(a.Stdout, "SQL: %s\n", res.SQL)
			fmt.Fprint(a.Stdout, domain.FormatResultSet(res.Result))
		} else {
			fmt.Fprintf(a.Stdout, "error: %v\n", res.Err)
		}
	}
}

func (a *App) dispatchQuestion(ctx context.Context, agent Agent, snap *port.SchemaSnapshot, line string) port.QueryResult {
	if a.Config.TargetTable != "" {
		if table := snap.Table(a.Config.TargetTable); table != nil {
			first, rest, _ := strings.Cut(line, " ")
			if table.Column(first) != nil {
				return agent.ColumnQuery(ctx, first, strings.TrimSpace(rest))
			}
		}
	}
	return agent.Ask(ctx, line)
}

func (a *App) printColumns(snap *port.SchemaSnapshot) {
	if a.Config.TargetTable != "" {
		if table := snap.Table(a.Config.TargetTable); table != nil {
			fmt.Fprintf(a.Stdout, "%s: %s\n", table.Name, strings.Join(table.ColumnNames(), ", "))
			return
		}
	}
	for _, table := range snap.Tables {
		fmt.Fprintf(a.Stdout, "%s: %s\n", table.Name, strings.Join(table.ColumnNames(), ", "))
	}
}
