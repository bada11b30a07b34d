package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijzereen/askpg/internal/adapter/postgres"
)

func TestExecute_RowCap(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 2, 10*time.Second)

	result, err := executor.Execute(context.Background(), "SELECT name FROM organizations ORDER BY name")
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, result.Columns)
	assert.Len(t, result.Rows, 2, "row cap applied on top of the generated query")
	assert.Equal(t, "Maelstrom", result.Rows[0][0])
}

func TestExecute_TrailingSemicolon(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 10, 10*time.Second)

	result, err := executor.Execute(context.Background(), "SELECT count(*) FROM organizations;")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(3), result.Rows[0][0])
}

func TestExecute_Explain(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 1, 10*time.Second)

	result, err := executor.Execute(context.Background(), "EXPLAIN SELECT * FROM organizations")
	require.NoError(t, err)
	assert.Equal(t, []string{"QUERY PLAN"}, result.Columns)
	assert.NotEmpty(t, result.Rows, "plan output is not row-capped")
}

func TestExecute_RejectsWrites(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 10, 10*time.Second)

	_, err := executor.Execute(context.Background(),
		"WITH ins AS (INSERT INTO organizations (name) VALUES ('x') RETURNING id) SELECT id FROM ins")
	require.Error(t, err)

	var count int64
	require.NoError(t, pool.QueryRow(context.Background(),
		"SELECT count(*) FROM organizations").Scan(&count))
	assert.Equal(t, int64(3), count, "read-only transaction left data untouched")
}

func TestExecute_Timeout(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 10, 100*time.Millisecond)

	_, err := executor.Execute(context.Background(), "SELECT pg_sleep(5)")
	require.Error(t, err)
}

func TestExecute_BadSQL(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 10, 10*time.Second)

	_, err := executor.Execute(context.Background(), "SELEC name FROM organizations")
	require.Error(t, err)
}

func TestExecute_NullValues(t *testing.T) {
	pool := setupTestDB(t)
	executor := postgres.NewExecutor(pool, 10, 10*time.Second)

	result, err := executor.Execute(context.Background(),
		"SELECT name, x_coord FROM organizations ORDER BY name LIMIT 1")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Nil(t, result.Rows[0][1])
}
