package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ijzereen/askpg/internal/core/port"
)

// Explorer reads table metadata and row samples from one catalog namespace.
type Explorer struct {
	pool   *pgxpool.Pool
	schema string
}

func NewExplorer(pool *pgxpool.Pool, schema string) *Explorer {
	if schema == "" {
		schema = "public"
	}
	return &Explorer{pool: pool, schema: schema}
}

func (e *Explorer) ListTables(ctx context.Context) ([]port.TableInfo, error) {
	rows, err := e.pool.Query(ctx, queryListTables, e.schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []port.TableInfo
	for rows.Next() {
		var t port.TableInfo
		if err := rows.Scan(&t.Schema, &t.Name, &t.RowEstimate); err != nil {
			return nil, fmt.Errorf("scanning table row: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (e *Explorer) DescribeColumns(ctx context.Context, schema, table string) ([]port.ColumnInfo, error) {
	if schema == "" {
		schema = e.schema
	}

	rows, err := e.pool.Query(ctx, queryColumns, schema, table)
	if err != nil {
		return nil, fmt.Errorf("querying columns of %q: %w", table, err)
	}
	defer rows.Close()

	var cols []port.ColumnInfo
	for rows.Next() {
		var col port.ColumnInfo
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.DefaultValue, &col.Comment); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := e.markPrimaryKeys(ctx, schema, table, cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func (e *Explorer) markPrimaryKeys(ctx context.Context, schema, table string, cols []port.ColumnInfo) error {
	rows, err := e.pool.Query(ctx, queryPrimaryKeys, schema, table)
	if err != nil {
		return fmt.Errorf("querying primary keys of %q: %w", table, err)
	}
	defer rows.Close()

	pkCols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning pk: %w", err)
		}
		pkCols[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range cols {
		if pkCols[cols[i].Name] {
			cols[i].IsPrimaryKey = true
		}
	}
	return nil
}

// SampleRows fetches up to limit rows from a table. Callers treat failures
// as non-fatal; a table with no readable sample data simply has none.
func (e *Explorer) SampleRows(ctx context.Context, schema, table string, limit int) ([]map[string]any, error) {
	if schema == "" {
		schema = e.schema
	}
	if limit <= 0 {
		return nil, nil
	}

	sql := fmt.Sprintf("SELECT * FROM %s LIMIT %d",
		pgx.Identifier{schema, table}.Sanitize(), limit)

	rows, err := e.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("sampling rows of %q: %w", table, err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var samples []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading sample row of %q: %w", table, err)
		}
		row := make(map[string]any, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[fd.Name] = values[i]
		}
		samples = append(samples, row)
	}
	return samples, rows.Err()
}

// DistinctValues fetches up to limit distinct values of one column, in
// sorted order. Used as prompt context for the fixed-table variant.
func (e *Explorer) DistinctValues(ctx context.Context, schema, table, column string, limit int) ([]any, error) {
	if schema == "" {
		schema = e.schema
	}

	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY 1 LIMIT %d",
		pgx.Identifier{column}.Sanitize(),
		pgx.Identifier{schema, table}.Sanitize(), limit)

	rows, err := e.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("querying distinct values of %q.%q: %w", table, column, err)
	}
	defer rows.Close()

	var values []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
