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

package codegen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/burrbull/bitbag/derive"
)

const DefaultRuntimeImport = "github.com/burrbull/bitbag"

type TypeKind uint8

const (
	TypeEnum TypeKind = iota + 1
	TypeStruct
)

func (k TypeKind) String() string {
	switch k {
	case TypeEnum:
		return "enum"
	case TypeStruct:
		return "struct"
	}
	return fmt.Sprintf("TypeKind(%d)", uint8(k))
}

// Schema is the generator's view of one .bitbag file. It is also the
// payload sent to codegen plugins, so every field is plain data.
type Schema struct {
	Package       string   `msgpack:"package"`
	SourcePath    []string `msgpack:"source_path"`
	RuntimeImport string   `msgpack:"runtime_import"`
	RuntimeName   string   `msgpack:"runtime_name"`
	Types         []Type   `msgpack:"types"`
}

type Type struct {
	Kind TypeKind `msgpack:"kind"`
	Name string   `msgpack:"name"`
	Doc  []string `msgpack:"doc,omitempty"`

	// Enums only. Repr is empty when the enum has no valid @repr.
	Storage  string    `msgpack:"storage,omitempty"`
	Repr     string    `msgpack:"repr,omitempty"`
	Variants []Variant `msgpack:"variants,omitempty"`

	// Structs only.
	Fields []Field `msgpack:"fields,omitempty"`

	Units []Unit `msgpack:"units,omitempty"`
}

type Variant struct {
	Name  string `msgpack:"name"`
	Const string `msgpack:"const"`
	// Value is a Go constant expression.
	Value  string   `msgpack:"value"`
	Doc    []string `msgpack:"doc,omitempty"`
	Fields []Field  `msgpack:"fields,omitempty"`
}

// Field is a struct or payload field with its Go name and Go type.
type Field struct {
	Name string `msgpack:"name"`
	Type string `msgpack:"type"`
}

type Unit struct {
	Kind   string `msgpack:"kind"`
	Source string `msgpack:"source"`
}

type Options struct {
	// Package is the Go package clause of generated files.
	Package string
	// RuntimeImport is the import path of the runtime package. Its name
	// comes from the derive result.
	RuntimeImport string
}

// NewSchema converts a derive result into a Schema. It fails if the
// result carries errors.
func NewSchema(result *derive.Result, opts Options) (*Schema, error) {
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("cannot generate code for %s: %w", sourceName(result.SourcePath), result.Errors[0])
	}
	if opts.Package == "" {
		return nil, fmt.Errorf("no Go package name set")
	}
	runtimeImport := opts.RuntimeImport
	if runtimeImport == "" {
		runtimeImport = DefaultRuntimeImport
	}
	runtime := result.RuntimePackage
	if runtime == "" {
		runtime = derive.DefaultRuntimePackage
	}

	schema := &Schema{
		Package:       opts.Package,
		SourcePath:    result.SourcePath,
		RuntimeImport: runtimeImport,
		RuntimeName:   runtime,
	}
	for _, decl := range result.Decls {
		var t Type
		switch decl.Kind {
		case derive.DeclEnum:
			t = enumType(decl, runtime)
		case derive.DeclStruct:
			t = Type{
				Kind:   TypeStruct,
				Name:   decl.Name,
				Doc:    decl.Doc,
				Fields: goFields(decl.Fields, runtime),
			}
		}
		for _, unit := range result.DeclUnits(decl) {
			t.Units = append(t.Units, Unit{
				Kind:   unit.Kind.String(),
				Source: unit.Source,
			})
		}
		schema.Types = append(schema.Types, t)
	}
	return schema, nil
}

func enumType(decl *derive.Decl, runtime string) Type {
	t := Type{
		Kind: TypeEnum,
		Name: decl.Name,
		Doc:  decl.Doc,
	}
	repr := derive.StorageRepr(decl)
	t.Storage = repr.StorageType()
	if resolved, err := derive.ResolveRepr(decl); err == nil {
		t.Repr = resolved.String()
	}

	var prev string
	for ii, variant := range decl.Variants {
		constName := derive.VariantConst(decl.Name, variant.Name)
		value := "0"
		if variant.Discriminant != nil {
			value = goIntLiteral(variant.Discriminant.Text)
		} else if ii > 0 {
			value = prev + " + 1"
		}
		t.Variants = append(t.Variants, Variant{
			Name:   variant.Name,
			Const:  constName,
			Value:  value,
			Doc:    variant.Doc,
			Fields: goFields(variant.Fields, runtime),
		})
		prev = constName
	}
	return t
}

func goFields(fields *derive.Fields, runtime string) []Field {
	if fields == nil {
		return nil
	}
	var out []Field
	for ii, field := range fields.List {
		name := field.Name
		if name == "" {
			name = fmt.Sprintf("F%d", ii)
		}
		out = append(out, Field{
			Name: exportName(name),
			Type: GoFieldType(field.Type, runtime),
		})
	}
	return out
}

// GoFieldType maps a .bitbag field type to Go. Unknown names are assumed
// to be other declared types and are used as written.
func GoFieldType(typeName, runtime string) string {
	if repr, ok := derive.ParseRepr(typeName); ok {
		return repr.GoType(runtime)
	}
	switch typeName {
	case "bool":
		return "bool"
	case "f32":
		return "float32"
	case "f64":
		return "float64"
	case "text":
		return "string"
	case "bytes":
		return "[]byte"
	}
	return typeName
}

// goIntLiteral rewrites a discriminant into Go syntax. Underscores are
// dropped because the .bitbag grammar accepts placements Go does not, and
// Go has no 0d prefix.
func goIntLiteral(text string) string {
	text = strings.ReplaceAll(text, "_", "")
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")
	if rest, ok := strings.CutPrefix(digits, "0d"); ok {
		digits = strings.TrimLeft(rest, "0")
		if digits == "" {
			digits = "0"
		}
	}
	if neg {
		return "-" + digits
	}
	return digits
}

func exportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func sourceName(sourcePath []string) string {
	if len(sourcePath) == 0 {
		return "<input>"
	}
	return strings.Join(sourcePath, "/")
}
