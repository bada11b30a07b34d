package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ijzereen/askpg/internal/core/domain"
	"github.com/ijzereen/askpg/internal/core/port"
)

// ErrNoTranslator means a natural-language operation was requested but no
// model endpoint is configured.
var ErrNoTranslator = errors.New("model endpoint not configured")

const (
	sampleValueLimit   = 3
	distinctValueLimit = 50
)

// AgentOptions carries the prompt and execution knobs for one run.
type AgentOptions struct {
	DomainContext  string
	TargetTable    string
	TargetColumn   string
	ContextColumns []string
	MaxRows        int
	Schema         string
}

// AgentService composes a query execution capability with an optional
// natural-language translation capability. Every operation is stateless
// relative to prior calls: one question, one model call, one statement.
type AgentService struct {
	snapshot   *port.SchemaSnapshot
	translator port.Translator
	queries    *QueryService
	explorer   port.SchemaExplorer
	opts       AgentOptions
	logger     *slog.Logger
}

func NewAgentService(snapshot *port.SchemaSnapshot, translator port.Translator, queries *QueryService, explorer port.SchemaExplorer, opts AgentOptions, logger *slog.Logger) *AgentService {
	return &AgentService{
		snapshot:   snapshot,
		translator: translator,
		queries:    queries,
		explorer:   explorer,
		opts:       opts,
		logger:     logger,
	}
}

// Snapshot returns the schema snapshot this agent was built with.
func (a *AgentService) Snapshot() *port.SchemaSnapshot { return a.snapshot }

// Ask translates a natural-language question into SQL, executes it, and
// returns the result. Any failure is converted to a failure result at this
// boundary; the caller decides whether that terminates the process.
func (a *AgentService) Ask(ctx context.Context, question string) port.QueryResult {
	res := port.QueryResult{ID: uuid.New(), Question: question}
	if a.translator == nil {
		res.Err = ErrNoTranslator
		return res
	}

	systemPrompt := domain.BuildSystemPrompt(a.snapshot, a.opts.DomainContext, a.opts.MaxRows)
	completion, err := a.translator.Complete(ctx, systemPrompt, "Generate a SQL query for: "+question)
	if err != nil {
		a.logger.ErrorContext(ctx, "model call failed",
			slog.String("query_id", res.ID.String()),
			slog.String("error", err.Error()),
		)
		res.Err = fmt.Errorf("generating SQL: %w", err)
		return res
	}

	sql, err := domain.ExtractSQL(completion)
	if err != nil {
		res.Err = err
		return res
	}
	res.SQL = sql

	a.logger.DebugContext(ctx, "SQL generated",
		slog.String("query_id", res.ID.String()),
		slog.String("db.statement", sql),
	)

	res.Result, res.Err = a.queries.Execute(ctx, sql)
	return res
}

// ExecuteSQL bypasses the model and runs caller-supplied SQL directly.
func (a *AgentService) ExecuteSQL(ctx context.Context, sql string) port.QueryResult {
	res := port.QueryResult{ID: uuid.New(), SQL: sql}
	res.Result, res.Err = a.queries.Execute(ctx, sql)
	return res
}

// ColumnQuery builds a single-column SELECT over the configured target
// table. When condition text is present, the model translates it into a
// WHERE clause; an empty condition selects unfiltered.
func (a *AgentService) ColumnQuery(ctx context.Context, column, condition string) port.QueryResult {
	res := port.QueryResult{ID: uuid.New(), Question: condition}

	table := a.snapshot.Table(a.opts.TargetTable)
	if table == nil {
		res.Err = fmt.Errorf("target table %q not found in schema", a.opts.TargetTable)
		return res
	}
	if column == "" {
		column = a.opts.TargetColumn
	}
	if table.Column(column) == nil {
		res.Err = fmt.Errorf("column %q does not exist in table %q (available: %s)",
			column, table.Name, strings.Join(table.ColumnNames(), ", "))
		return res
	}

	where := ""
	if strings.TrimSpace(condition) != "" {
		translated, err := a.translateCondition(ctx, table, column, condition)
		if err != nil {
			res.Err = err
			return res
		}
		where = translated
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", domain.QuoteIdent(column), domain.QuoteIdent(table.Name))
	if where != "" {
		sql += " WHERE " + where
	}
	sql += fmt.Sprintf(" LIMIT %d", a.opts.MaxRows)
	res.SQL = sql

	res.Result, res.Err = a.queries.Execute(ctx, sql)
	return res
}

// translateCondition gathers value context for the target table and asks
// the model for a bare WHERE clause. Context fetch failures degrade to a
// prompt without that context; only the model call itself is fatal.
func (a *AgentService) translateCondition(ctx context.Context, table *port.TableDescriptor, column, condition string) (string, error) {
	if a.translator == nil {
		return "", ErrNoTranslator
	}

	cc := domain.ConditionContext{
		Table:          table.Name,
		TargetColumn:   column,
		Columns:        table.ColumnNames(),
		SampleValues:   make(map[string][]any),
		DistinctValues: make(map[string][]any),
		ContextColumns: a.opts.ContextColumns,
		DomainContext:  a.opts.DomainContext,
	}

	for _, col := range cc.Columns {
		values, err := a.explorer.DistinctValues(ctx, a.opts.Schema, table.Name, col, sampleValueLimit)
		if err != nil {
			a.logger.WarnContext(ctx, "sample value fetch failed",
				slog.String("db.collection.name", table.Name),
				slog.String("column", col),
				slog.String("error", err.Error()),
			)
			continue
		}
		cc.SampleValues[col] = values
	}
	for _, col := range cc.ContextColumns {
		if table.Column(col) == nil {
			continue
		}
		values, err := a.explorer.DistinctValues(ctx, a.opts.Schema, table.Name, col, distinctValueLimit)
		if err != nil {
			a.logger.WarnContext(ctx, "distinct value fetch failed",
				slog.String("db.collection.name", table.Name),
				slog.String("column", col),
				slog.String("error", err.Error()),
			)
			continue
		}
		cc.DistinctValues[col] = values
	}

	completion, err := a.translator.Complete(ctx, domain.BuildConditionPrompt(cc), "Question: "+condition)
	if err != nil {
		return "", fmt.Errorf("translating condition: %w", err)
	}
	return domain.ExtractCondition(completion), nil
}
