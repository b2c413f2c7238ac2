// Package codebase keeps a workspace of transpiled source files up to date
// for the watch command and the language server.
package codebase

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/typestripped/project"
	"github.com/dhamidi/typestripped/strip"
)

var log = commonlog.GetLogger("typestripped.codebase")

type Codebase struct {
	mu     sync.RWMutex
	config *project.Config
	files  map[string]*FileInfo
}

// FileInfo is the latest transpilation of one file. Files are always
// transpiled in recovering mode: Failures lists the statements that were
// copied through unchanged, Err is set when the file could not be
// transpiled at all.
type FileInfo struct {
	Path     string
	Content  []byte
	Output   string
	Failures []*strip.ParseError
	Err      error
}

// Diagnostics returns every parse failure of the file, including the one
// held by Err.
func (f *FileInfo) Diagnostics() []*strip.ParseError {
	diags := slices.Clone(f.Failures)
	var perr *strip.ParseError
	if errors.As(f.Err, &perr) {
		diags = append(diags, perr)
	}
	return diags
}

// OK reports whether the file transpiled without any failure.
func (f *FileInfo) OK() bool {
	return f.Err == nil && len(f.Failures) == 0
}

func New(config *project.Config) *Codebase {
	return &Codebase{
		config: config,
		files:  make(map[string]*FileInfo),
	}
}

func (c *Codebase) Config() *project.Config {
	return c.config
}

// ScanAll transpiles every source file of the project.
func (c *Codebase) ScanAll() error {
	paths, err := c.config.SourceFiles()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if _, err := c.ScanFile(path); err != nil {
			log.Warningf("%s", err)
		}
	}
	return nil
}

// ScanFile reads path from disk and transpiles it.
func (c *Codebase) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return c.UpdateFile(path, content), nil
}

// UpdateFile transpiles content as the new text of path.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := transpile(path, content)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func transpile(path string, content []byte) *FileInfo {
	info := &FileInfo{Path: path, Content: content}
	info.Output, info.Err = strip.Transpile(string(content),
		strip.WithFile(path),
		strip.WithRecover(),
		strip.WithLogger(log),
		strip.WithErrorHandler(func(perr *strip.ParseError) {
			info.Failures = append(info.Failures, perr)
		}),
	)
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the paths of all known files, sorted.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
