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
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"

	"github.com/burrbull/bitbag/codegen"
	"github.com/burrbull/bitbag/derive"
	"github.com/burrbull/bitbag/syntax"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	pkg := flags.String("package", "", "Go package name of the generated file")
	runtimeImport := flags.String("runtime-import", codegen.DefaultRuntimeImport, "import path of the bitbag runtime package")
	_ = flags.Parse(os.Args[1:])

	args := flags.Args()
	if len(args) != 1 || *pkg == "" {
		log.Fatalf("usage: %s --package=NAME BITBAG_SCHEMA", os.Args[0])
	}
	schemaPath := args[0]

	src, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("ReadFile(%q): %v", schemaPath, err)
	}

	parsed, err := syntax.Parse(src)
	if err != nil {
		log.Fatalf("Parse(%q): %v", schemaPath, err)
	}

	var opts []derive.Option
	if !filepath.IsAbs(schemaPath) {
		opts = append(opts, derive.WithSourcePath(splitPath(filepath.Clean(schemaPath))))
	}
	result := derive.Derive(parsed, opts...)
	for _, warning := range result.Warnings {
		log.Printf("[WARN ] %v", warning)
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			log.Printf("[ERROR] %v", err)
		}
		os.Exit(1)
	}

	schema, err := codegen.NewSchema(&result, codegen.Options{
		Package:       *pkg,
		RuntimeImport: *runtimeImport,
	})
	if err != nil {
		log.Fatal(err)
	}
	content, err := codegen.GenerateGo(schema)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stdout.Write(content); err != nil {
		log.Fatal(err)
	}
}

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
