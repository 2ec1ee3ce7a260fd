package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsUpAndDown(t *testing.T) {
	ctx := context.Background()
	conn := filepath.Join(t.TempDir(), "nested", "test.db") + "?_pragma=foreign_keys(1)"

	database, err := Init(ctx, "sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, RunMigrations(ctx, database.DB, "sqlite"))

	var tables []string
	err = database.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'profiles', 'posts', 'reactions') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "profiles", "reactions", "users"}, tables)

	require.NoError(t, MigrateDown(ctx, database.DB, "sqlite"))

	var count int
	err = database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'files'`)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDialectFallsBackToDriverName(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}
