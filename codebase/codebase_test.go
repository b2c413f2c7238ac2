package codebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/typestripped/project"
)

func newTestCodebase(t *testing.T) (*Codebase, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	return New(project.Default(dir)), dir
}

func TestUpdateFile(t *testing.T) {
	c, _ := newTestCodebase(t)
	info := c.UpdateFile("a.ts", []byte("let x: number = 1;"))
	assert.True(t, info.OK())
	assert.Equal(t, "let x         = 1;", info.Output)
	assert.Same(t, info, c.GetFile("a.ts"))
}

func TestUpdateFileRecovers(t *testing.T) {
	c, _ := newTestCodebase(t)
	info := c.UpdateFile("a.ts", []byte("let a = 1;\nlet b = ;\nlet c: T = 3;"))
	require.NoError(t, info.Err)
	require.Len(t, info.Failures, 1)
	assert.Equal(t, 2, info.Failures[0].Pos.Line)
	assert.Equal(t, "let a = 1;\nlet b = ;\nlet c    = 3;", info.Output)
	assert.False(t, info.OK())
}

func TestUpdateFileTrailingInput(t *testing.T) {
	c, _ := newTestCodebase(t)
	info := c.UpdateFile("a.ts", []byte("let a = 1; }"))
	require.Error(t, info.Err)
	assert.Len(t, info.Diagnostics(), 1)
}

func TestScanAllAndRemove(t *testing.T) {
	c, dir := newTestCodebase(t)
	for _, name := range []string{"b.ts", "a.ts", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", name), []byte("export const v = 1;"), 0o644))
	}
	require.NoError(t, c.ScanAll())
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "a.ts"),
		filepath.Join(dir, "src", "b.ts"),
	}, c.Paths())

	c.RemoveFile(filepath.Join(dir, "src", "a.ts"))
	assert.Nil(t, c.GetFile(filepath.Join(dir, "src", "a.ts")))
	assert.Len(t, c.Paths(), 1)
}

func TestScanFileMissing(t *testing.T) {
	c, dir := newTestCodebase(t)
	_, err := c.ScanFile(filepath.Join(dir, "src", "missing.ts"))
	assert.Error(t, err)
}
