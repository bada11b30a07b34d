package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ijzereen/askpg/internal/adapter/llm"
	"github.com/ijzereen/askpg/internal/adapter/postgres"
	"github.com/ijzereen/askpg/internal/app"
	"github.com/ijzereen/askpg/internal/config"
	"github.com/ijzereen/askpg/internal/core/domain"
	"github.com/ijzereen/askpg/internal/core/service"
	"github.com/ijzereen/askpg/internal/schemafile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stdout carries the MCP stdio protocol; logs must go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx := context.Background()

	annotations, err := schemafile.LoadAnnotations(cfg.AnnotationsPath)
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer pool.Close()

	explorer := postgres.NewExplorer(pool, cfg.Schema)
	inspector := service.NewInspectorService(explorer, annotations, cfg.SampleRows, logger)
	snapshot, err := inspector.Snapshot(ctx)
	if err != nil {
		return err
	}

	translator, err := llm.NewClient(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return fmt.Errorf("configuring model client: %w", err)
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

	logger.Info("starting askpg-mcp",
		slog.String("db.system", "postgresql"),
		slog.Int("tables", len(snapshot.Tables)),
	)

	return server.ServeStdio(app.NewServer(agent, queries))
}
