package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingorm/thing/schema"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	fields, err := parseFields("body:string, score:float,approved:bool,posted_at:date")
	require.NoError(t, err)
	relations, err := parseRelations("post:Post:belongsTo,replies:Reply:hasMany")
	require.NoError(t, err)

	g := Generator{
		ModelName:     "Comment",
		Fields:        fields,
		Relations:     relations,
		Package:       "models",
		ModelsDir:     filepath.Join(dir, "models"),
		MigrationsDir: filepath.Join(dir, "migrations"),
		Dialect:       "postgres",
		Now:           func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) },
	}

	files, err := g.Generate()
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "models", "comment.go"),
		filepath.Join(dir, "migrations", "20240501103000_create_comments.sql"),
	}, files)

	source, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(source), "package models")
	assert.Contains(t, string(source), "func DeclareComment(r *thing.Registry) (*thing.Model, error) {")
	assert.Contains(t, string(source), `{Name: "score", Descriptor: "number"},`)
	assert.Contains(t, string(source), `{Name: "post_id", Descriptor: "number"},`)
	assert.Contains(t, string(source), `a.BelongsTo("post", schema.Relation{Model: "Post", Link: "posts.id", LocalKey: "post_id"})`)
	assert.Contains(t, string(source), `a.HasMany("replies", schema.Relation{Model: "Reply", Link: "replies.comment_id"})`)

	migration, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.Equal(t, `-- +goose Up
CREATE TABLE comments (
    id BIGSERIAL PRIMARY KEY,
    body TEXT,
    score DOUBLE PRECISION,
    approved BOOLEAN,
    posted_at TIMESTAMPTZ,
    post_id BIGINT
);

-- +goose Down
DROP TABLE comments;
`, string(migration))
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	base := Generator{ModelName: "Tag", Package: "models", ModelsDir: dir, MigrationsDir: dir, Dialect: "sqlite"}

	g := base
	_, err := g.Generate()
	assert.ErrorContains(t, err, "must be provided")

	g = base
	g.Fields = []FieldInfo{{Name: "label", Type: "blob"}}
	_, err = g.Generate()
	assert.ErrorIs(t, err, schema.ErrUnknownType)

	g = base
	g.Fields = []FieldInfo{{Name: "label", Type: "string"}}
	g.Relations = []RelationInfo{{Name: "posts", Model: "Post", Kind: "belongsToMany"}}
	_, err = g.Generate()
	assert.ErrorContains(t, err, "unsupported kind")

	g = base
	g.Fields = []FieldInfo{{Name: "label", Type: "string"}}
	g.Dialect = "oracle"
	_, err = g.Generate()
	assert.ErrorContains(t, err, "unsupported dialect")

	_, err = parseRelations("posts:Post")
	assert.ErrorContains(t, err, "name:Model:kind")
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--name", "Tag", "--attributes", "label",
		"--models-dir", dir, "--migrations-dir", dir, "--dialect", "mysql"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Create file: "+filepath.Join(dir, "tag.go"))

	matches, err := filepath.Glob(filepath.Join(dir, "*_create_tags.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	migration, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(migration), "id BIGINT AUTO_INCREMENT PRIMARY KEY,\n    label VARCHAR(255)\n")
}
