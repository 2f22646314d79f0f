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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/burrbull/bitbag/codegen"
	"github.com/burrbull/bitbag/derive"
	"github.com/burrbull/bitbag/internal/config"
	"github.com/burrbull/bitbag/internal/diagfmt"
	"github.com/burrbull/bitbag/syntax"
)

func splitPath(path string) []string {
	var out []string
	for {
		dir, file := filepath.Split(path)
		if dir == "" {
			out = append(out, file)
			slices.Reverse(out)
			return out
		}
		out = append(out, file)
		path = dir[:len(dir)-1]
	}
}

// commonFlags are shared by every command that reads .bitbag files. Unset
// flags fall back to the project file.
type commonFlags struct {
	pkg           string
	runtimeImport string
	runtimeName   string
	color         string
	diagnostics   string
	jobs          int
}

func (f *commonFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.pkg, "package", "", "Go package name of generated files")
	flags.StringVar(&f.runtimeImport, "runtime-import", "", "import path of the bitbag runtime package")
	flags.StringVar(&f.runtimeName, "runtime-name", "", "identifier the runtime package is imported as")
	flags.StringVar(&f.color, "color", "", "colorize diagnostics: auto, always, or never")
	flags.StringVar(&f.diagnostics, "diagnostics", "text", "diagnostics format: text or json")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "number of files processed in parallel")
}

// settings are the flags merged with the project file found next to the
// first input.
type settings struct {
	cfg           *config.Config
	pkg           string
	runtimeImport string
	runtimeName   string
	color         string
	jsonOutput    bool
	jobs          int
}

func (f *commonFlags) resolve(firstInput string) (*settings, error) {
	cfg, err := config.Load(filepath.Dir(firstInput))
	if err != nil {
		return nil, err
	}
	s := &settings{
		cfg:           cfg,
		pkg:           firstNonEmpty(f.pkg, cfg.Package),
		runtimeImport: firstNonEmpty(f.runtimeImport, cfg.RuntimeImport, codegen.DefaultRuntimeImport),
		runtimeName:   firstNonEmpty(f.runtimeName, cfg.RuntimeName, derive.DefaultRuntimePackage),
		color:         firstNonEmpty(f.color, cfg.Color),
		jobs:          f.jobs,
	}
	switch s.color {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return nil, fmt.Errorf("invalid --color %q (choose auto, always, or never)", s.color)
	}
	switch f.diagnostics {
	case "", "text":
	case "json":
		s.jsonOutput = true
	default:
		return nil, fmt.Errorf("unsupported diagnostics format %q (choose text or json)", f.diagnostics)
	}
	if s.jobs <= 0 {
		s.jobs = cfg.Jobs
	}
	if s.jobs <= 0 {
		s.jobs = runtime.NumCPU()
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// useColor decides whether output to fd is colorized.
func useColor(mode string, fd uintptr) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(fd))
}

type compiled struct {
	file   *diagfmt.File
	result *derive.Result
}

func (c *compiled) failed() bool {
	return c.result == nil || len(c.result.Errors) > 0
}

// compileFile parses and derives one .bitbag file. Syntax and derive
// failures are returned as diagnostics; other failures as errors.
func (s *settings) compileFile(path string) (*compiled, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &compiled{
		file: &diagfmt.File{Path: path, Src: src},
	}

	parsed, err := syntax.Parse(src)
	if err != nil {
		diag, ok := diagfmt.FromError(err)
		if !ok {
			return nil, err
		}
		c.file.Diagnostics = []diagfmt.Diagnostic{diag}
		return c, nil
	}

	sourcePath := []string{filepath.Base(path)}
	if !filepath.IsAbs(path) {
		sourcePath = splitPath(filepath.Clean(path))
	}
	result := derive.Derive(
		parsed,
		derive.WithRuntimePackage(s.runtimeName),
		derive.WithSourcePath(sourcePath),
	)
	c.result = &result
	c.file.Diagnostics = diagfmt.FromResult(&result)
	return c, nil
}

func (s *settings) schema(c *compiled) (*codegen.Schema, error) {
	return codegen.NewSchema(c.result, codegen.Options{
		Package:       s.pkg,
		RuntimeImport: s.runtimeImport,
	})
}

// compileAll compiles every path, at most s.jobs at a time. Results are in
// input order.
func (s *settings) compileAll(ctx context.Context, paths []string) ([]*compiled, error) {
	results := make([]*compiled, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for ii, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := s.compileFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[ii] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report writes the diagnostics of every file to w. It returns true if
// any file has errors.
func (s *settings) report(w io.Writer, fd uintptr, results []*compiled) (bool, error) {
	files := make([]*diagfmt.File, 0, len(results))
	failed := false
	for _, c := range results {
		files = append(files, c.file)
		failed = failed || c.failed()
	}
	if s.jsonOutput {
		return failed, diagfmt.JSON(w, files)
	}
	opts := diagfmt.PrettyOpts{Color: useColor(s.color, fd)}
	for _, file := range files {
		if err := diagfmt.Pretty(w, file, opts); err != nil {
			return failed, err
		}
	}
	return failed, nil
}
