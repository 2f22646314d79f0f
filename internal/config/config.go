// Copyright (c) 2026 The bitbag Authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package config loads bitbag.toml or bitbag.yaml project files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	TomlName = "bitbag.toml"
	YamlName = "bitbag.yaml"
	YmlName  = "bitbag.yml"

	// EnvPluginPath supplies plugin_path when the project file leaves it
	// unset.
	EnvPluginPath = "BITBAG_CODEGEN_PLUGIN_PATH"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	// Path is the project file this config was read from, or empty.
	Path string `toml:"-" yaml:"-"`

	Package       string `toml:"package" yaml:"package"`
	Output        string `toml:"output" yaml:"output"`
	RuntimeImport string `toml:"runtime_import" yaml:"runtime_import"`
	RuntimeName   string `toml:"runtime_name" yaml:"runtime_name"`
	PluginPath    string `toml:"plugin_path" yaml:"plugin_path"`
	Color         string `toml:"color" yaml:"color"`
	Jobs          int    `toml:"jobs" yaml:"jobs"`
}

// Find looks for a project file in startDir and each of its parents. In
// any one directory bitbag.toml takes precedence over bitbag.yaml, which
// takes precedence over bitbag.yml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range []string{TomlName, YamlName, YmlName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and reads the project file governing startDir. Without one,
// the defaults are returned.
func Load(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if ok {
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile reads one project file, choosing the format by extension.
func LoadFile(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		meta, err := toml.Decode(string(buf), cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of %q, %q, %q; got %q", ColorAuto, ColorAlways, ColorNever, cfg.Color)
	}
	if cfg.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.RuntimeName != "" && !isIdentifier(cfg.RuntimeName) {
		return fmt.Errorf("runtime_name %q is not a Go identifier", cfg.RuntimeName)
	}
	if cfg.Package != "" && !isIdentifier(cfg.Package) {
		return fmt.Errorf("package %q is not a Go identifier", cfg.Package)
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}
	if cfg.PluginPath == "" {
		cfg.PluginPath = os.Getenv(EnvPluginPath)
	}
}

// Dir is the directory relative paths in the config are resolved against.
func (cfg *Config) Dir() string {
	if cfg.Path == "" {
		return "."
	}
	return filepath.Dir(cfg.Path)
}

// OutputDir resolves Output against Dir. It is empty if Output is.
func (cfg *Config) OutputDir() string {
	if cfg.Output == "" || filepath.IsAbs(cfg.Output) {
		return cfg.Output
	}
	return filepath.Join(cfg.Dir(), filepath.FromSlash(cfg.Output))
}

// PluginDirs splits PluginPath on the OS list separator.
func (cfg *Config) PluginDirs() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(cfg.PluginPath) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func isIdentifier(s string) bool {
	for ii, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case ii > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return s != ""
}
