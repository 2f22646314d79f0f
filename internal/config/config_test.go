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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/burrbull/bitbag/internal/config"
	"github.com/burrbull/bitbag/internal/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testutil.AssertNoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadToml(t *testing.T) {
	t.Setenv(config.EnvPluginPath, "")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.TomlName), `
package = "flags"
output = "gen"
runtime_import = "example.com/rt"
runtime_name = "rt"
plugin_path = "/opt/plugins"
color = "never"
jobs = 4
`)
	nested := filepath.Join(root, "schemas", "v1")
	testutil.AssertNoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := config.Load(nested)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, &config.Config{
		Path:          filepath.Join(root, config.TomlName),
		Package:       "flags",
		Output:        "gen",
		RuntimeImport: "example.com/rt",
		RuntimeName:   "rt",
		PluginPath:    "/opt/plugins",
		Color:         config.ColorNever,
		Jobs:          4,
	}, cfg)
	testutil.ExpectEq(t, filepath.Join(root, "gen"), cfg.OutputDir())
}

func TestLoadYaml(t *testing.T) {
	t.Setenv(config.EnvPluginPath, "")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.YamlName), "package: perms\ncolor: always\n")

	cfg, err := config.Load(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "perms", cfg.Package)
	testutil.ExpectEq(t, config.ColorAlways, cfg.Color)
	testutil.ExpectEq(t, "", cfg.OutputDir())
}

func TestFindPrefersToml(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.YamlName), "package: a\n")
	writeFile(t, filepath.Join(root, config.TomlName), "package = \"b\"\n")

	path, ok, err := config.Find(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, filepath.Join(root, config.TomlName), path)
}

func TestFindYml(t *testing.T) {
	t.Setenv(config.EnvPluginPath, "")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.YmlName), "package: short\n")

	cfg, err := config.Load(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, filepath.Join(root, config.YmlName), cfg.Path)
	testutil.ExpectEq(t, "short", cfg.Package)

	writeFile(t, filepath.Join(root, config.YamlName), "package: long\n")
	path, ok, err := config.Find(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, filepath.Join(root, config.YamlName), path)
}

func TestFindNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.TomlName), "package = \"outer\"\n")
	writeFile(t, filepath.Join(root, "inner", config.YamlName), "package: inner\n")

	cfg, err := config.Load(filepath.Join(root, "inner"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "inner", cfg.Package)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(config.EnvPluginPath, "/a"+string(filepath.ListSeparator)+"/b")
	dir := t.TempDir()
	if _, ok, _ := config.Find(dir); ok {
		t.Skip("a project file exists above the temp dir")
	}
	cfg, err := config.Load(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "", cfg.Path)
	testutil.ExpectEq(t, ".", cfg.Dir())
	testutil.ExpectEq(t, config.ColorAuto, cfg.Color)
	testutil.ExpectSliceEq(t, []string{"/a", "/b"}, cfg.PluginDirs())
}

func TestEnvPluginPathFallback(t *testing.T) {
	t.Setenv(config.EnvPluginPath, "/from/env")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.TomlName), "package = \"p\"\n")
	cfg, err := config.Load(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "/from/env", cfg.PluginPath)

	writeFile(t, filepath.Join(root, config.TomlName), "plugin_path = \"/from/file\"\n")
	cfg, err = config.Load(root)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "/from/file", cfg.PluginPath)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", config.TomlName, "pkg = \"x\"\n", `unknown key "pkg"`},
		{"unknown yaml key", config.YamlName, "pkg: x\n", "field pkg not found"},
		{"bad color", config.TomlName, "color = \"sometimes\"\n", `got "sometimes"`},
		{"negative jobs", config.YamlName, "jobs: -1\n", "jobs must not be negative"},
		{"bad runtime name", config.TomlName, "runtime_name = \"run-time\"\n", "not a Go identifier"},
		{"bad package", config.TomlName, "package = \"1x\"\n", "not a Go identifier"},
		{"bad toml", config.TomlName, "package = \n", "failed to parse TOML"},
		{"unsupported", "bitbag.json", "{}", "unsupported config format"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), test.file)
			writeFile(t, path, test.content)
			_, err := config.LoadFile(path)
			testutil.AssertError(t, err)
			testutil.ExpectContains(t, test.want, err.Error())
		})
	}
}

func TestLoadEmptyYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.YamlName)
	writeFile(t, path, "")
	cfg, err := config.LoadFile(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, config.ColorAuto, cfg.Color)
}
