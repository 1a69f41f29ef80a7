package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing/dialect"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		driver    string
		name      string
		bindVar   string
		quoted    string
		lastID    bool
		returning string
	}{
		{"pgx", "postgres", "$2", `"user""s"`, false, `RETURNING "id"`},
		{"postgres", "postgres", "$2", `"user""s"`, false, `RETURNING "id"`},
		{"sqlite", "sqlite3", "?", `"user""s"`, true, ""},
		{"mysql", "mysql", "?", "`user\"s`", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := dialect.New(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
			assert.Equal(t, tt.bindVar, d.BindVar(2))
			assert.Equal(t, tt.quoted, d.Quote(`user"s`))
			assert.Equal(t, tt.lastID, d.SupportLastInsertId())
			assert.Equal(t, tt.returning, d.ReturningStr("id"))
		})
	}

	_, err := dialect.New("oracle")
	assert.ErrorIs(t, err, dialect.ErrUnsupportedDialect)
}
