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

// Package codegen renders derived .bitbag declarations as Go source.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"strings"
)

const generatedHeader = "// Code generated by bitbag. DO NOT EDIT.\n"

type codegen struct {
	schema *Schema
	buf    bytes.Buffer
}

// GenerateGo renders schema as a gofmt-formatted Go file.
func GenerateGo(schema *Schema) ([]byte, error) {
	if schema.Package == "" {
		return nil, fmt.Errorf("no Go package name set")
	}
	c := &codegen{schema: schema}
	c.emitSchema()
	out, err := format.Source(c.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code for %s: %w", sourceName(schema.SourcePath), err)
	}
	return out, nil
}

func (c *codegen) line(format string, args ...any) {
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteByte('\n')
}

func (c *codegen) emitSchema() {
	c.buf.WriteString(generatedHeader)
	if len(c.schema.SourcePath) > 0 {
		c.line("// source: %s", strings.Join(c.schema.SourcePath, "/"))
	}
	c.line("")
	c.line("package %s", c.schema.Package)

	if c.usesRuntime() {
		c.line("")
		runtimeImport := c.schema.RuntimeImport
		if path.Base(runtimeImport) == c.schema.RuntimeName {
			c.line("import %q", runtimeImport)
		} else {
			c.line("import %s %q", c.schema.RuntimeName, runtimeImport)
		}
	}

	for ii := range c.schema.Types {
		t := &c.schema.Types[ii]
		switch t.Kind {
		case TypeEnum:
			c.emitEnum(t)
		case TypeStruct:
			c.emitStruct(t)
		}
		for _, unit := range t.Units {
			c.line("")
			c.buf.WriteString(unit.Source)
		}
	}
}

func (c *codegen) usesRuntime() bool {
	prefix := c.schema.RuntimeName + "."
	for _, t := range c.schema.Types {
		if len(t.Units) > 0 {
			return true
		}
		for _, field := range t.Fields {
			if strings.Contains(field.Type, prefix) {
				return true
			}
		}
		for _, variant := range t.Variants {
			for _, field := range variant.Fields {
				if strings.Contains(field.Type, prefix) {
					return true
				}
			}
		}
	}
	return false
}

func (c *codegen) emitDoc(indent string, doc []string) {
	for _, line := range doc {
		if line == "" {
			c.line("%s//", indent)
		} else {
			c.line("%s// %s", indent, line)
		}
	}
}

func (c *codegen) emitEnum(t *Type) {
	c.line("")
	c.emitDoc("", t.Doc)
	c.line("type %s %s", t.Name, t.Storage)

	if len(t.Variants) > 0 {
		c.line("")
		c.line("const (")
		for _, variant := range t.Variants {
			c.emitDoc("\t", variant.Doc)
			c.line("\t%s %s = %s", variant.Const, t.Name, variant.Value)
		}
		c.line(")")
	}

	for _, variant := range t.Variants {
		if len(variant.Fields) == 0 {
			continue
		}
		c.line("")
		c.line("// %sData is the payload of %s.", variant.Const, variant.Const)
		c.emitFields(variant.Const+"Data", variant.Fields)
	}
}

func (c *codegen) emitStruct(t *Type) {
	c.line("")
	c.emitDoc("", t.Doc)
	c.emitFields(t.Name, t.Fields)
}

func (c *codegen) emitFields(name string, fields []Field) {
	if len(fields) == 0 {
		c.line("type %s struct{}", name)
		return
	}
	c.line("type %s struct {", name)
	for _, field := range fields {
		c.line("\t%s %s", field.Name, field.Type)
	}
	c.line("}")
}

// OutputPath is the relative path of the Go file generated for schema.
func OutputPath(schema *Schema) []string {
	if len(schema.SourcePath) == 0 {
		return []string{schema.Package + ".go"}
	}
	base := schema.SourcePath[len(schema.SourcePath)-1]
	base = strings.TrimSuffix(base, ".bitbag")
	return []string{base + "_bitbag.go"}
}
