package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--driver", "sqlite", "--dsn", dsn, "--log-level", "silent"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "blog.db")

	out, err := run(t, dsn, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "version: 2\n", out)

	out, err = run(t, dsn, "models")
	require.NoError(t, err)
	assert.Equal(t, "Post\tposts\nProfile\tprofiles\nUser\tusers\n", out)

	out, err = run(t, dsn, "create", "User", "name=Ann", "email= Ann@Example.com ", "-o", "json")
	require.NoError(t, err)

	var created []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	assert.Equal(t, "Ann", created[0]["name"])
	assert.Equal(t, "ann@example.com", created[0]["email"])
	assert.NotContains(t, created[0], "password")

	_, err = run(t, dsn, "create", "Post", "user_id=1", "title=hello", "published=true")
	require.NoError(t, err)
	_, err = run(t, dsn, "create", "Post", "user_id=1", "title=draft")
	require.NoError(t, err)

	out, err = run(t, dsn, "find", "Post", "published=true", "--with", "author", "-o", "json")
	require.NoError(t, err)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0]["title"])
	assert.Equal(t, true, posts[0]["published"])
	assert.Equal(t, "Ann", posts[0]["author"].(map[string]interface{})["name"])

	out, err = run(t, dsn, "find", "Post", "--limit", "1", "--offset", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "draft")
	assert.NotContains(t, out, "hello")
	assert.Contains(t, out, "(1 rows)")

	out, err = run(t, dsn, "find", "User", "email=nobody@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 rows)")

	out, err = run(t, dsn, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", out)

	out, err = run(t, dsn, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", out)
}

func TestCommandErrors(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "blog.db")
	_, err := run(t, dsn, "migrate", "up")
	require.NoError(t, err)

	_, err = run(t, dsn, "find", "Comment")
	assert.ErrorContains(t, err, "Comment")

	_, err = run(t, dsn, "find", "User", "email")
	assert.ErrorContains(t, err, "expected key=value")

	_, err = run(t, dsn, "create", "User", "name=Bob", "email=not-an-email")
	assert.Error(t, err)

	_, err = run(t, dsn, "find", "User", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, dsn, "--driver", "oracle", "models")
	assert.ErrorContains(t, err, "unsupported driver")
}
