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
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/burrbull/bitbag/codegen"
)

type cmdGenerate struct {
	common commonFlags
	outDir string
	stdout bool
}

func (*cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate [options] FILE.bitbag...",
		summary: "Generate Go code for .bitbag declarations",
	}
}

func (cmd *cmdGenerate) flags(flags *pflag.FlagSet) {
	cmd.common.register(flags)
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory (default: next to each input)")
	flags.BoolVar(&cmd.stdout, "stdout", false, "write generated code to stdout instead of files")
}

func (cmd *cmdGenerate) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: bitbag generate [options] FILE.bitbag...")
		return 1
	}
	if cmd.stdout && len(argv) > 1 {
		fmt.Fprintln(os.Stderr, "--stdout accepts a single input file")
		return 1
	}

	s, err := cmd.common.resolve(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if s.pkg == "" {
		fmt.Fprintln(os.Stderr, "No Go package name set (use --package= or `package` in bitbag.toml)")
		return 1
	}

	results, err := s.compileAll(ctx, argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	failed, err := s.report(os.Stderr, os.Stderr.Fd(), results)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if failed {
		return 1
	}

	schemas := make([]*codegen.Schema, len(results))
	outputs := make([]string, len(results))
	written := make(map[string]string, len(results))
	for ii, c := range results {
		schema, err := s.schema(c)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		schemas[ii] = schema
		if cmd.stdout {
			continue
		}
		outPath := filepath.Join(append([]string{cmd.outputDir(s, argv[ii])}, codegen.OutputPath(schema)...)...)
		if prev, ok := written[outPath]; ok {
			fmt.Fprintf(os.Stderr, "%s and %s would both be written to %s\n", prev, argv[ii], outPath)
			return 1
		}
		written[outPath] = argv[ii]
		outputs[ii] = outPath
	}

	for ii, schema := range schemas {
		content, err := codegen.GenerateGo(schema)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if cmd.stdout {
			if _, err := os.Stdout.Write(content); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			continue
		}
		if err := writeOutput(outputs[ii], content); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

func (cmd *cmdGenerate) outputDir(s *settings, input string) string {
	if cmd.outDir != "" {
		return cmd.outDir
	}
	if dir := s.cfg.OutputDir(); dir != "" {
		return dir
	}
	return filepath.Dir(input)
}

func writeOutput(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(content)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
