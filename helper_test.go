package thing_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing"
	"github.com/thingorm/thing/executor"
	"github.com/thingorm/thing/logger"
	"github.com/thingorm/thing/schema"
)

func newMockRegistry(t *testing.T, opts ...thing.Option) (*thing.Registry, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	exec, err := executor.OpenDB("sqlite", db)
	require.NoError(t, err)

	opts = append([]thing.Option{thing.WithLogger(logger.Discard)}, opts...)
	return thing.New(exec, opts...), mock
}

func userFields() schema.Fields {
	return schema.Fields{
		{Name: "name", Descriptor: "string"},
		{Name: "email", Descriptor: "string"},
		{Name: "password", Descriptor: map[string]interface{}{"type": "string", "hidden": true}},
	}
}

func makeUser(t *testing.T, r *thing.Registry, init ...func(*thing.Assembler)) *thing.Model {
	t.Helper()

	user, err := r.Make("User", func(a *thing.Assembler) {
		a.Schema(userFields())
		for _, fn := range init {
			fn(a)
		}
	})
	require.NoError(t, err)
	return user
}

var postsRelation = schema.Relation{Link: "posts.user_id", Columns: []string{"id", "title"}}

const userColumns = `"users"."name","users"."email","users"."password","users"."id"`
