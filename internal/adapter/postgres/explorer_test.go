package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ijzereen/askpg/internal/adapter/postgres"
)

const testSchema = `
	CREATE TABLE organizations (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		region        TEXT,
		members_count INTEGER DEFAULT 0,
		status        TEXT,
		x_coord       NUMERIC,
		y_coord       NUMERIC
	);
	COMMENT ON COLUMN organizations.region IS 'district name';

	CREATE TABLE members (
		id     SERIAL PRIMARY KEY,
		org_id INTEGER NOT NULL REFERENCES organizations(id),
		alias  TEXT
	);

	CREATE VIEW org_names AS SELECT id, name FROM organizations;

	INSERT INTO organizations (name, region, members_count, status) VALUES
		('Maelstrom', 'Watson', 30, 'active'),
		('Tyger Claws', 'Downtown', 50, 'active'),
		('Valentinos', 'Heywood', 45, 'active');
`

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "ANALYZE")
	require.NoError(t, err)

	return pool
}

func TestListTables(t *testing.T) {
	pool := setupTestDB(t)
	explorer := postgres.NewExplorer(pool, "public")

	tables, err := explorer.ListTables(context.Background())
	require.NoError(t, err)

	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{"members", "organizations"}, names, "base tables only, views excluded, name order")
}

func TestDescribeColumns(t *testing.T) {
	pool := setupTestDB(t)
	explorer := postgres.NewExplorer(pool, "public")

	cols, err := explorer.DescribeColumns(context.Background(), "", "organizations")
	require.NoError(t, err)
	require.Len(t, cols, 7)

	assert.Equal(t, "id", cols[0].Name, "catalog column order preserved")
	assert.True(t, cols[0].IsPrimaryKey)
	assert.False(t, cols[0].IsNullable)

	var region *struct {
		nullable bool
		comment  string
	}
	for _, c := range cols {
		if c.Name == "region" {
			region = &struct {
				nullable bool
				comment  string
			}{c.IsNullable, c.Comment}
		}
	}
	require.NotNil(t, region)
	assert.True(t, region.nullable)
	assert.Equal(t, "district name", region.comment)
}

func TestSampleRows(t *testing.T) {
	pool := setupTestDB(t)
	explorer := postgres.NewExplorer(pool, "public")

	rows, err := explorer.SampleRows(context.Background(), "", "organizations", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "name")

	rows, err = explorer.SampleRows(context.Background(), "", "organizations", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSampleRows_MissingTable(t *testing.T) {
	pool := setupTestDB(t)
	explorer := postgres.NewExplorer(pool, "public")

	_, err := explorer.SampleRows(context.Background(), "", "no_such_table", 3)
	require.Error(t, err, "caller degrades this to no sample data")
}

func TestDistinctValues(t *testing.T) {
	pool := setupTestDB(t)
	explorer := postgres.NewExplorer(pool, "public")

	values, err := explorer.DistinctValues(context.Background(), "", "organizations", "region", 10)
	require.NoError(t, err)
	assert.Equal(t, []any{"Downtown", "Heywood", "Watson"}, values, "sorted distinct values")
}
