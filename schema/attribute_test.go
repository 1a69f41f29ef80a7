package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing/schema"
)

func TestAttributeDefaults(t *testing.T) {
	s := schema.New()

	attr, err := s.Attribute("name")
	require.NoError(t, err)
	assert.Equal(t, schema.String, attr.DataType())
	assert.False(t, attr.IsHidden())
	assert.False(t, attr.IsReadonly())
	assert.False(t, attr.HasDefault())

	private, err := s.Attribute("_secret", "string")
	require.NoError(t, err)
	assert.True(t, private.IsHidden())

	private.Hidden(false)
	assert.False(t, private.IsHidden())
}

func TestAttributeCreateOrReturn(t *testing.T) {
	s := schema.New()

	first, err := s.Attribute("age", "number")
	require.NoError(t, err)

	second, err := s.Attribute("age", map[string]interface{}{"readonly": true})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, schema.Number, second.DataType())
	assert.True(t, second.IsReadonly())
	assert.Equal(t, 1, s.Len())
}

func TestAttributeUnknownType(t *testing.T) {
	s := schema.New()

	_, err := s.Attribute("age", "integer")
	var se *schema.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "age", se.Attribute)
	assert.ErrorIs(t, err, schema.ErrUnknownType)
	assert.Contains(t, err.Error(), `"age"`)
}

func TestAttributePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		declare func(attr *schema.Attribute)
		err     error
	}{
		{"getter", func(attr *schema.Attribute) { attr.Getter(func(schema.Values) interface{} { return nil }) }, schema.ErrNotVirtual},
		{"setter", func(attr *schema.Attribute) { attr.Setter(func(schema.Values, interface{}) error { return nil }) }, schema.ErrNotVirtual},
		{"link", func(attr *schema.Attribute) { attr.Link("posts.user_id") }, schema.ErrNotRelated},
		{"schema", func(attr *schema.Attribute) { attr.Schema(schema.Fields{}) }, schema.ErrNotRelated},
		{"relationship", func(attr *schema.Attribute) { attr.Relationship(schema.HasMany) }, schema.ErrNotRelated},
		{"model", func(attr *schema.Attribute) { attr.Model("Post") }, schema.ErrNotRelated},
		{"eager", func(attr *schema.Attribute) { attr.Eager(true) }, schema.ErrNotRelated},
		{"join", func(attr *schema.Attribute) { attr.Join(true) }, schema.ErrNotRelated},
		{"columns", func(attr *schema.Attribute) { attr.Columns("id") }, schema.ErrNotRelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.New().Attribute("field", "string", tt.declare)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAttributeFirstErrorWins(t *testing.T) {
	attr, err := schema.New().Attribute("field", "string")
	require.NoError(t, err)

	attr.Link("posts.user_id").Type("unknown")
	assert.ErrorIs(t, attr.Err(), schema.ErrNotRelated)
	assert.NotErrorIs(t, attr.Err(), schema.ErrUnknownType)
}

func TestRelationshipKinds(t *testing.T) {
	for _, kind := range []string{"hasOne", "hasMany", "HASMANY"} {
		_, err := schema.New().Attribute("rel", map[string]interface{}{"type": "related", "link": "a.b", "relationship": kind})
		assert.NoError(t, err, kind)
	}

	for _, kind := range []string{"belongsTo", "belongsToMany", "manyToMany"} {
		_, err := schema.New().Attribute("rel", map[string]interface{}{"type": "related", "link": "a.b", "relationship": kind})
		assert.ErrorIs(t, err, schema.ErrInvalidRelationship, kind)
		assert.Contains(t, err.Error(), `"rel"`)
	}
}

func TestInvalidLink(t *testing.T) {
	for _, link := range []string{"posts", ".user_id", "posts.", ""} {
		_, err := schema.New().Attribute("posts", "related", func(attr *schema.Attribute) { attr.Link(link) })
		assert.ErrorIs(t, err, schema.ErrInvalidLink, link)
	}
}

func TestDefaultProducer(t *testing.T) {
	var calls int
	attr, err := schema.New().Attribute("token", map[string]interface{}{
		"default": func() interface{} {
			calls++
			return calls
		},
	})
	require.NoError(t, err)

	assert.True(t, attr.HasDefault())
	assert.Equal(t, 1, attr.DefaultValue())
	assert.Equal(t, 2, attr.DefaultValue())

	scalar, err := schema.New().Attribute("role", map[string]interface{}{"default": "member"})
	require.NoError(t, err)
	assert.Equal(t, "member", scalar.DefaultValue())
}

func TestTypedDefaultProducer(t *testing.T) {
	count, err := schema.New().Attribute("count", map[string]interface{}{
		"type":    "number",
		"default": func() int64 { return 7 },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count.DefaultValue())

	data, err := schema.New().Attribute("data", map[string]interface{}{
		"default": func() []byte { return []byte("raw") },
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data.DefaultValue())

	var nilProducer func() string
	empty, err := schema.New().Attribute("empty", map[string]interface{}{"default": nilProducer})
	require.NoError(t, err)
	assert.Nil(t, empty.DefaultValue())

	for _, fn := range []interface{}{
		func(n int) int { return n },
		func() {},
		func() (string, error) { return "", nil },
	} {
		_, err := schema.New().Attribute("bad", map[string]interface{}{"default": fn})
		assert.ErrorIs(t, err, schema.ErrInvalidDefault)
	}
}

func TestRelatedAttribute(t *testing.T) {
	attr, err := schema.New().Attribute("profile", map[string]interface{}{
		"type":     "related",
		"model":    "Profile",
		"link":     "profiles.user_id",
		"eager":    true,
		"join":     "inner",
		"columns":  []interface{}{"id", "bio"},
		"localKey": "uid",
		"schema":   schema.Fields{{Name: "bio", Descriptor: "string"}},
	})
	require.NoError(t, err)

	assert.True(t, attr.IsRelated())
	assert.False(t, attr.IsColumn())
	assert.Equal(t, schema.HasOne, attr.RelationshipType())
	assert.Equal(t, schema.Link{Table: "profiles", Column: "user_id"}, attr.LinkSpec())
	assert.Equal(t, "uid", attr.LocalKeyName())
	require.NotNil(t, attr.NestedSchema())
	assert.Equal(t, []string{"bio"}, attr.NestedSchema().Names())

	rel := attr.Relation()
	require.NoError(t, rel.Validate())
	assert.True(t, rel.JoinEager())
	assert.False(t, rel.BatchEager())
	assert.Equal(t, schema.InnerJoin, rel.Join)
	assert.Equal(t, []string{"id", "bio"}, rel.Columns)
	assert.Equal(t, "Profile", rel.Model)
}
