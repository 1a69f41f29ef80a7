package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing/dialects/sqlite"
	"github.com/thingorm/thing/errtranslator"
)

func TestIsMemory(t *testing.T) {
	assert.True(t, sqlite.IsMemory(""))
	assert.True(t, sqlite.IsMemory(":memory:"))
	assert.True(t, sqlite.IsMemory("file:test.db?mode=memory&cache=shared"))
	assert.False(t, sqlite.IsMemory("blog.db"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, dsn := range []string{":memory:", filepath.Join(t.TempDir(), "blog.db")} {
		db, err := sqlite.Open(dsn)
		require.NoError(t, err)

		_, err = db.DB().ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT UNIQUE)`)
		require.NoError(t, err)

		id, err := db.Insert(ctx, "users", map[string]interface{}{"email": "ann@example.com"}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		_, err = db.Insert(ctx, "users", map[string]interface{}{"email": "ann@example.com"}, "id")
		assert.True(t, errtranslator.IsDuplicatedKey(err), "got %v", err)

		var enabled int
		require.NoError(t, db.DB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
		require.NoError(t, db.Close())
	}
}
