package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcj-play/internal/buffer"
	"hcj-play/internal/compose"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSetShowCompose(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".hcj-play")

	out, err := execute(t, nil, "--dir", dir, "set", "markup", writeFile(t, root, "in.html", "<h1>Hi</h1>"))
	require.NoError(t, err)
	assert.Contains(t, out, "Set index.html")

	_, err = execute(t, strings.NewReader("h1{color:red}"), "--dir", dir, "set", "css")
	require.NoError(t, err)
	_, err = execute(t, strings.NewReader("console.log(1)"), "--dir", dir, "set", "script.js", "-")
	require.NoError(t, err)

	out, err = execute(t, nil, "--dir", dir, "show", "style")
	require.NoError(t, err)
	assert.Equal(t, "h1{color:red}", out)

	want := compose.Compose(buffer.Set{Markup: "<h1>Hi</h1>", Style: "h1{color:red}", Script: "console.log(1)"})
	out, err = execute(t, nil, "--dir", dir, "compose")
	require.NoError(t, err)
	assert.Equal(t, want, out)

	target := filepath.Join(root, "page.html")
	_, err = execute(t, nil, "--dir", dir, "compose", "-o", target)
	require.NoError(t, err)
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	_, err = os.Stat(filepath.Join(dir, "storage.json"))
	assert.NoError(t, err, "file backend persists under the state dir")
}

func TestComposeEmptyStorage(t *testing.T) {
	out, err := execute(t, nil, "--dir", filepath.Join(t.TempDir(), ".hcj-play"), "compose")
	require.NoError(t, err)
	assert.Equal(t, compose.Compose(buffer.Set{}), out)
}

func TestComposeCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".hcj-play")
	_, err := execute(t, strings.NewReader("<p>ok</p>"), "--dir", dir, "set", "markup")
	require.NoError(t, err)
	out, err := execute(t, nil, "--dir", dir, "compose", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "ok:")

	_, err = execute(t, strings.NewReader("document.write('<script>')"), "--dir", dir, "set", "script")
	require.NoError(t, err)
	_, err = execute(t, nil, "--dir", dir, "compose", "--check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestUnknownBuffer(t *testing.T) {
	_, err := execute(t, nil, "--dir", t.TempDir(), "show", "python")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, buffer.ErrUnknownBuffer)
}

func TestSQLiteBackendFromConfig(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".hcj-play")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, dir, "config.yaml", "storage:\n  backend: sqlite\n")

	_, err := execute(t, strings.NewReader("p{}"), "--dir", dir, "set", "style")
	require.NoError(t, err)
	out, err := execute(t, nil, "--dir", dir, "show", "style")
	require.NoError(t, err)
	assert.Equal(t, "p{}", out)

	_, err = os.Stat(filepath.Join(dir, "storage.db"))
	assert.NoError(t, err)
}
