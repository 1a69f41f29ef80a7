package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing/schema"
)

func TestParseLink(t *testing.T) {
	link, err := schema.ParseLink("public.posts.user_id")
	require.NoError(t, err)
	assert.Equal(t, "public.posts", link.Table)
	assert.Equal(t, "user_id", link.Column)
	assert.Equal(t, "public.posts.user_id", link.String())

	_, err = schema.ParseLink("posts")
	assert.ErrorIs(t, err, schema.ErrInvalidLink)
	assert.True(t, schema.Link{}.IsZero())
}

func TestRelationValidate(t *testing.T) {
	tests := []struct {
		name string
		rel  schema.Relation
		err  error
	}{
		{"has one", schema.Relation{Name: "profile", Type: schema.HasOne, Link: "profiles.user_id"}, nil},
		{"has many by model", schema.Relation{Name: "posts", Type: schema.HasMany, Model: "Post"}, nil},
		{"belongs to", schema.Relation{Name: "author", Type: schema.BelongsTo, Link: "users.id"}, nil},
		{"belongs to without link", schema.Relation{Name: "author", Type: schema.BelongsTo, Model: "User"}, schema.ErrInvalidLink},
		{"belongs to many", schema.Relation{Name: "tags", Type: schema.BelongsToMany, Link: "tags.id"}, schema.ErrUnsupportedRelation},
		{"unknown", schema.Relation{Name: "x", Type: "hasSome", Link: "x.y"}, schema.ErrInvalidRelationship},
		{"join to many", schema.Relation{Name: "posts", Type: schema.HasMany, Link: "posts.user_id", Eager: true, Join: schema.LeftJoin}, schema.ErrJoinToMany},
		{"nothing", schema.Relation{Name: "x", Type: schema.HasOne}, schema.ErrInvalidLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := tt.rel
			err := rel.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestBelongsToLocalKey(t *testing.T) {
	rel := &schema.Relation{Name: "author", Type: schema.BelongsTo, Link: "users.id"}
	require.NoError(t, rel.Validate())
	assert.Equal(t, "user_id", rel.LocalKey)
	assert.Equal(t, schema.Link{Table: "users", Column: "id"}, rel.ParsedLink())
}

func TestRelationships(t *testing.T) {
	rs := schema.NewRelationships()
	require.NoError(t, rs.Add(&schema.Relation{Name: "posts", Type: schema.HasMany, Link: "posts.user_id", Eager: true}))
	require.NoError(t, rs.Add(&schema.Relation{Name: "profile", Type: schema.HasOne, Link: "profiles.user_id", Eager: true, Join: schema.LeftJoin}))

	assert.ErrorIs(t, rs.Add(&schema.Relation{Name: "posts", Type: schema.HasMany, Link: "posts.user_id"}), schema.ErrDuplicateRelation)
	assert.Equal(t, []string{"posts", "profile"}, rs.Names())

	posts, ok := rs.Get("posts")
	require.True(t, ok)
	assert.True(t, posts.BatchEager())

	profile, _ := rs.Get("profile")
	assert.True(t, profile.JoinEager())

	clone := rs.Clone()
	cloned, _ := clone.Get("posts")
	cloned.Eager = false
	assert.True(t, posts.Eager)
	assert.Equal(t, 2, clone.Len())

	var names []string
	rs.Each(func(rel *schema.Relation) { names = append(names, rel.Name) })
	assert.Equal(t, []string{"posts", "profile"}, names)
}
