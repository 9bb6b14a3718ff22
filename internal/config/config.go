// Package config loads the optional .mdbabel.toml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezerfernandes/mdbabel/internal/executor"
)

// Filename is looked up next to the document when no config is given.
const Filename = ".mdbabel.toml"

// Config holds the file settings. Command-line flags take precedence.
type Config struct {
	Interp    bool                `toml:"interp"`
	FailFast  bool                `toml:"fail_fast"`
	Quiet     bool                `toml:"quiet"`
	Languages map[string]Language `toml:"languages"`

	path string
}

// Language maps a fence tag to the command its body is appended to.
type Language struct {
	Command string `toml:"command"`
}

// Load decodes the config file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := new(Config)

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, fmt.Errorf("config %s: %w: %s", path, errUnknownKeys, strings.Join(keys, ", "))
	}

	cfg.path = path

	return cfg, nil
}

// Discover loads the config file sitting next to document. It returns an
// empty config when there is none.
func Discover(document string) (*Config, error) {
	path := filepath.Join(filepath.Dir(document), Filename)

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return new(Config), nil
	}

	return cfg, err
}

// Path returns the file the config was read from, empty for defaults.
func (c *Config) Path() string {
	return c.path
}

// Registry returns the default languages overlaid with the configured ones.
func (c *Config) Registry() (*executor.Registry, error) {
	reg := executor.NewRegistry()

	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		lang, err := executor.ParseLanguage(name, c.Languages[name].Command)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", c.path, err)
		}

		reg.Register(lang)
	}

	return reg, nil
}

var errUnknownKeys = errors.New("unknown keys")

