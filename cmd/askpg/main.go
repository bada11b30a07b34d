package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ijzereen/askpg/internal/adapter/llm"
	"github.com/ijzereen/askpg/internal/adapter/postgres"
	"github.com/ijzereen/askpg/internal/cli"
	"github.com/ijzereen/askpg/internal/config"
	"github.com/ijzereen/askpg/internal/core/domain"
	"github.com/ijzereen/askpg/internal/core/service"
	"github.com/ijzereen/askpg/internal/schemafile"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if verboseRequested(os.Args[1:]) {
		level = slog.LevelDebug
	}

	// Stdout carries query results; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app := &cli.App{
		Config:  cfg,
		Connect: connectFunc(cfg, logger),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	return app.Run(ctx, os.Args[1:])
}

// verboseRequested checks for the verbose flag before flag parsing runs, so
// the logger can be built first.
func verboseRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-verbose" || arg == "--verbose" || arg == "-verbose=true" || arg == "--verbose=true" {
			return true
		}
	}
	return false
}

// connectFunc assembles the real session: database pool, inspected schema,
// model client, and the agent built from them.
func connectFunc(cfg *config.Config, logger *slog.Logger) cli.ConnectFunc {
	return func(ctx context.Context) (*cli.Session, error) {
		annotations, err := schemafile.LoadAnnotations(cfg.AnnotationsPath)
		if err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}

		explorer := postgres.NewExplorer(pool, cfg.Schema)
		inspector := service.NewInspectorService(explorer, annotations, cfg.SampleRows, logger)
		snapshot, err := inspector.Snapshot(ctx)
		if err != nil {
			pool.Close()
			return nil, err
		}

		translator, err := llm.NewClient(llm.Config{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("configuring model client: %w", err)
		}

		var validator *domain.QueryValidator
		if !cfg.TrustModel {
			validator = domain.NewQueryValidator()
		}

		executor := postgres.NewExecutor(pool, cfg.MaxRows, cfg.QueryTimeout)
		queries := service.NewQueryService(validator, executor, logger)
		agent := service.NewAgentService(snapshot, translator, queries, explorer, service.AgentOptions{
			DomainContext:  cfg.DomainContext,
			TargetTable:    cfg.TargetTable,
			TargetColumn:   cfg.TargetColumn,
			ContextColumns: cfg.ContextColumns,
			MaxRows:        cfg.MaxRows,
			Schema:         cfg.Schema,
		}, logger)

		return &cli.Session{Agent: agent, Close: pool.Close}, nil
	}
}
