package domain

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

var (
	ErrEmptyQuery     = errors.New("empty query")
	ErrNotAllowed     = errors.New("only SELECT queries are allowed")
	ErrMultiStatement = errors.New("multiple statements are not allowed")
)

// QueryValidator gates model-generated SQL using PostgreSQL's actual parser.
// Only a single SELECT (or EXPLAIN) statement passes; everything else is
// rejected before it reaches the database. A nil *QueryValidator disables
// the gate entirely, which restores trust-the-model behavior.
type QueryValidator struct{}

func NewQueryValidator() *QueryValidator {
	return &QueryValidator{}
}

// Validate parses the SQL and rejects anything that isn't a single
// read-only statement. Nil receiver means validation is disabled.
func (v *QueryValidator) Validate(sql string) error {
	if v == nil {
		return nil
	}

	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return ErrEmptyQuery
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("failed to parse SQL: %w", err)
	}

	switch len(tree.Stmts) {
	case 0:
		return ErrEmptyQuery
	case 1:
	default:
		return ErrMultiStatement
	}

	stmt := tree.Stmts[0].Stmt
	if stmt == nil {
		return ErrEmptyQuery
	}

	switch stmt.Node.(type) {
	case *pg_query.Node_SelectStmt, *pg_query.Node_ExplainStmt:
		return nil
	default:
		return ErrNotAllowed
	}
}
