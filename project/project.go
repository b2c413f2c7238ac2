// Package project loads the typestripped.yaml configuration of a source
// tree and lists the files it covers.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "typestripped.yaml"

// ErrExists is returned by WriteDefault when a configuration is present.
var ErrExists = errors.New("configuration already exists")

// Config describes where sources live and where transpiled files go.
// Relative directories are resolved against RootDir.
type Config struct {
	RootDir string `yaml:"-"`

	Src       string   `yaml:"src"`
	Out       string   `yaml:"out"`
	Extension string   `yaml:"extension"`
	Recover   bool     `yaml:"recover"`
	Jobs      int      `yaml:"jobs"`
	Addr      string   `yaml:"addr"`
	Exclude   []string `yaml:"exclude,omitempty"`
}

// Default returns the configuration used when rootDir has no FileName.
func Default(rootDir string) *Config {
	return &Config{
		RootDir:   rootDir,
		Src:       "src",
		Out:       "out",
		Extension: ".js",
		Jobs:      runtime.NumCPU(),
		Addr:      ":8080",
		Exclude:   []string{"node_modules", "*.d.ts"},
	}
}

// Load reads the configuration of the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads rootDir/typestripped.yaml. Keys missing from the file
// keep their defaults; a missing file yields Default(rootDir).
func LoadFrom(rootDir string) (*Config, error) {
	return LoadFile(filepath.Join(rootDir, FileName))
}

// LoadFile reads the configuration at path. The project root is the
// directory containing it.
func LoadFile(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	return cfg, nil
}

// SrcDir returns the source directory.
func (c *Config) SrcDir() string {
	return c.resolve(c.Src)
}

// OutDir returns the output directory.
func (c *Config) OutDir() string {
	return c.resolve(c.Out)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.RootDir, dir)
}

// IsSource reports whether path is a TypeScript file not matched by
// Exclude.
func (c *Config) IsSource(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
	default:
		return false
	}
	return !c.excluded(path)
}

func (c *Config) excluded(path string) bool {
	name := filepath.Base(path)
	rel, err := filepath.Rel(c.SrcDir(), path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// SourceFiles returns all source files below SrcDir in lexical order.
// Hidden and excluded directories are not entered.
func (c *Config) SourceFiles() ([]string, error) {
	var files []string
	root := c.SrcDir()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || c.excluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return files, nil
}

// OutputPath maps a source file to its transpiled counterpart below
// OutDir. Files outside SrcDir are placed next to their source.
func (c *Config) OutputPath(src string) string {
	out := strings.TrimSuffix(src, filepath.Ext(src)) + c.Extension
	rel, err := filepath.Rel(c.SrcDir(), out)
	if err != nil || strings.HasPrefix(rel, "..") {
		return out
	}
	return filepath.Join(c.OutDir(), rel)
}

// EnsureOutDir creates the directory that will hold path.
func EnsureOutDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates rootDir/typestripped.yaml with the default
// configuration and returns its path.
func WriteDefault(rootDir string) (string, error) {
	path := filepath.Join(rootDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return path, fmt.Errorf("create directory: %w", err)
	}
	data, err := Default(rootDir).Marshal()
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
