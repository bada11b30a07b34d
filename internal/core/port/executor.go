package port

import "context"

// ResultSet holds the rows returned by one statement, with column order
// preserved as the database reported it.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// QueryExecutor runs a single SQL statement and returns its result set.
type QueryExecutor interface {
	Execute(ctx context.Context, sql string) (*ResultSet, error)
}
