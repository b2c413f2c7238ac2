package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherTranspilesChangedFiles(t *testing.T) {
	c, dir := newTestCodebase(t)
	w, err := NewWatcher(c)
	require.NoError(t, err)
	defer w.Close()

	changed := make(chan *FileInfo, 16)
	w.OnChange = func(info *FileInfo) { changed <- info }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	path := filepath.Join(dir, "src", "main.ts")
	require.NoError(t, os.WriteFile(path, []byte("const n: number = 1;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "notes.txt"), []byte("x"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case info := <-changed:
			assert.Equal(t, path, info.Path)
			if info.Output == "const n         = 1;" {
				return
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestWatcherStopsWithContext(t *testing.T) {
	c, _ := newTestCodebase(t)
	w, err := NewWatcher(c)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
