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

package syntax_test

import (
	"slices"
	"testing"

	"github.com/burrbull/bitbag/internal/testutil"
	"github.com/burrbull/bitbag/syntax"
)

const permissionSrc = `# header
## Permissions.
@repr(u8)
@derive(BitBaggable, BitOr)
enum Permission {
    ## Read access.
    Read = 1
    Write = 0x2,
    Exec = 0b100,
    Payload { x: i32, y: geo.Point }
    Pair(u8, u8) = 7
}

struct Unit
struct Wrapper(u64)
`

func TestParseSchema(t *testing.T) {
	t.Parallel()

	schema, err := syntax.Parse([]byte(permissionSrc))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, permissionSrc, syntax.Unparse(schema))

	decls := slices.Collect(schema.Decls())
	if len(decls) != 3 {
		t.Fatalf("Expected 3 declarations, got %d", len(decls))
	}

	enum, ok := decls[0].(*syntax.Enum)
	if !ok {
		t.Fatalf("Expected *syntax.Enum, got %T", decls[0])
	}
	testutil.ExpectEq(t, "Permission", enum.Name().Get())

	decorators := enum.Decorators()
	if len(decorators) != 2 {
		t.Fatalf("Expected 2 decorators, got %d", len(decorators))
	}
	testutil.ExpectEq(t, "repr", decorators[0].Name().Get())
	testutil.ExpectEq(t, 1, decorators[0].Args().Len())
	testutil.ExpectEq(t, "@repr(u8)", syntax.Unparse(decorators[0]))
	testutil.ExpectEq(t, "(u8)", syntax.Unparse(decorators[0].Args()))

	var deriveNames []string
	for arg := range decorators[1].Args().Values() {
		deriveNames = append(deriveNames, arg.(*syntax.Ident).Get())
	}
	testutil.ExpectSliceEq(t, []string{"BitBaggable", "BitOr"}, deriveNames)

	variants := enum.Variants()
	var names []string
	for _, variant := range variants {
		names = append(names, variant.Name().Get())
	}
	testutil.ExpectSliceEq(t, []string{"Read", "Write", "Exec", "Payload", "Pair"}, names)

	testutil.ExpectEq(t, "1", variants[0].Value().Raw())
	write, _ := variants[1].Value().GetUint64()
	testutil.ExpectEq(t, uint64(2), write)
	exec, _ := variants[2].Value().GetUint64()
	testutil.ExpectEq(t, uint64(4), exec)
	testutil.ExpectTrue(t, variants[0].Fields() == nil)

	payload := variants[3].Fields()
	testutil.ExpectFalse(t, payload.IsPositional())
	testutil.ExpectEq(t, "{ x: i32, y: geo.Point }", syntax.Unparse(payload))
	testutil.ExpectEq(t, 2, len(payload.Fields()))
	testutil.ExpectEq(t, "y", payload.Fields()[1].Name().Get())
	testutil.ExpectEq(t, "geo.Point", payload.Fields()[1].Type().String())
	testutil.ExpectEq(t, "geo", payload.Fields()[1].Type().Scope().Get())
	testutil.ExpectTrue(t, variants[3].Value() == nil)

	pair := variants[4].Fields()
	testutil.ExpectTrue(t, pair.IsPositional())
	testutil.ExpectEq(t, "(u8, u8)", syntax.Unparse(pair))
	testutil.ExpectEq(t, 2, len(pair.Fields()))
	testutil.ExpectTrue(t, pair.Fields()[0].Name() == nil)
	testutil.ExpectEq(t, "7", variants[4].Value().Raw())

	unit := decls[1].(*syntax.Struct)
	testutil.ExpectEq(t, "Unit", unit.Name().Get())
	testutil.ExpectTrue(t, unit.Fields() == nil)
	testutil.ExpectEq(t, 0, len(unit.Decorators()))

	wrapper := decls[2].(*syntax.Struct)
	testutil.ExpectTrue(t, wrapper.Fields().IsPositional())
	testutil.ExpectEq(t, "u64", wrapper.Fields().Fields()[0].Type().String())
}

func TestParseDumpJSON(t *testing.T) {
	t.Parallel()

	schema, err := syntax.Parse([]byte("struct A\n"))
	testutil.AssertNoError(t, err)

	expect := `{"schema": {
    "span": {"start": 0, "len": 9},
    "child-nodes": [
        {"struct": {
            "span": {"start": 0, "len": 8},
            "child-nodes": [
                {"keyword": {
                    "span": {"start": 0, "len": 6},
                    "unparse": "struct"}},
                {"space": {
                    "span": {"start": 6, "len": 1},
                    "unparse": " "}},
                {"ident": {
                    "span": {"start": 7, "len": 1},
                    "value": "A"}}
            ]}},
        {"newline": {
            "span": {"start": 8, "len": 1},
            "unparse": "\n"}}
    ]}}`
	testutil.ExpectNoDiff(t, expect, string(testutil.DumpJSON(schema)))
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	schema, err := syntax.Parse([]byte("## doc\n# plain\nstruct A\n"))
	testutil.AssertNoError(t, err)

	var comments []*syntax.Comment
	syntax.Walk(schema, func(node syntax.Node) bool {
		if comment, ok := node.(*syntax.Comment); ok {
			comments = append(comments, comment)
		}
		return true
	})
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	testutil.ExpectTrue(t, comments[0].IsDocComment())
	testutil.ExpectEq(t, "doc", comments[0].DocText())
	testutil.ExpectFalse(t, comments[1].IsDocComment())
}

func TestParseWithoutTrivia(t *testing.T) {
	t.Parallel()

	src := []byte("# c\nstruct A { x: i32 }\n")
	schema, err := syntax.Parse(src, syntax.WithoutTrivia())
	testutil.AssertNoError(t, err)

	syntax.Walk(schema, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.Space, *syntax.Newline, *syntax.Comment:
			t.Errorf("unexpected trivia node %T", node)
		}
		return true
	})
	testutil.ExpectEq(t, "structA{x:i32}", syntax.Unparse(schema))
}

func TestParseDecorator(t *testing.T) {
	t.Parallel()

	opts := syntax.NewParseOptions()

	decorator, err := opts.ParseDecorator([]byte(`@doc("a\tb", 0x10, Name)`))
	testutil.AssertNoError(t, err)
	args := slices.Collect(decorator.Args().Values())
	testutil.ExpectEq(t, 3, len(args))
	testutil.ExpectEq(t, "a\tb", args[0].(*syntax.TextLit).Get())
	value, _ := args[1].(*syntax.IntLit).GetUint64()
	testutil.ExpectEq(t, uint64(16), value)
	testutil.ExpectEq(t, "Name", args[2].(*syntax.Ident).Get())

	bare, err := opts.ParseDecorator([]byte("@repr"))
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, bare.Args() == nil)

	empty, err := opts.ParseDecorator([]byte("@derive()"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, empty.Args().Len())

	_, err = opts.ParseDecorator([]byte("repr"))
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, uint32(2000), err.(*syntax.Error).Code())
}

func TestParseEnumAndStruct(t *testing.T) {
	t.Parallel()

	opts := syntax.NewParseOptions()

	enum, err := opts.ParseEnum([]byte("enum E { A, B = -1 }"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 2, len(enum.Variants()))
	neg, ok := enum.Variants()[1].Value().GetInt64()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, int64(-1), neg)
	testutil.ExpectTrue(t, enum.Variants()[1].Value().IsNegative())

	structNode, err := opts.ParseStruct([]byte("struct S { a: text, b: bytes, }"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 2, len(structNode.Fields().Fields()))

	_, err = opts.ParseEnum([]byte("struct S"))
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, uint32(2016), err.(*syntax.Error).Code())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		code   uint32
		start  uint32
		len    uint32
	}{
		{"enum without name", "enum {}", 2012, 5, 1},
		{"decorator without target", "@repr(u8)\n", 2021, 10, 0},
		{"unknown declaration", "message X {}", 2016, 0, 7},
		{"expected declaration", "{", 2015, 0, 1},
		{"variant value not int", "enum E { A = B }", 2010, 13, 1},
		{"variant missing name", "enum E { = }", 2020, 9, 1},
		{"unterminated enum", "enum E { A", 2020, 10, 0},
		{"bad decorator arg", "@derive(=)", 2019, 8, 1},
		{"decorator args unclosed", "@repr(u8 u16)", 2008, 9, 3},
		{"field missing colon", "struct P { x i32 }", 2001, 13, 3},
		{"tuple field not type", "struct P(1)", 2018, 9, 1},
		{"int too positive", "enum E { A = 18446744073709551616 }", 2022, 13, 20},
		{"int too negative", "enum E { A = -9223372036854775809 }", 2023, 13, 20},
		{"invalid escape", `@doc("\q")`, 2024, 5, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := syntax.Parse([]byte(test.source))
			testutil.AssertError(t, err)

			parseErr, ok := err.(*syntax.Error)
			if !ok {
				t.Fatalf("Expected *syntax.Error, got %T", err)
			}
			testutil.ExpectEq(t, test.code, parseErr.Code())
			testutil.ExpectEq(t, syntax.NewSpan(test.start, test.len), parseErr.Span())
		})
	}
}

func TestSourcePosition(t *testing.T) {
	t.Parallel()

	src := []byte("ab\ncd\n")
	testutil.ExpectEq(t, syntax.Position{Line: 1, Column: 1}, syntax.SourcePosition(src, 0))
	testutil.ExpectEq(t, syntax.Position{Line: 2, Column: 2}, syntax.SourcePosition(src, 4))
	testutil.ExpectEq(t, syntax.Position{Line: 3, Column: 1}, syntax.SourcePosition(src, 100))

	wide := []byte("é x")
	testutil.ExpectEq(t, syntax.Position{Line: 1, Column: 3}, syntax.SourcePosition(wide, 3))

	crlf := []byte("ab\r\ncd")
	line, start := syntax.SourceLine(crlf, 5)
	testutil.ExpectEq(t, "cd", string(line))
	testutil.ExpectEq(t, uint32(4), start)
	line, start = syntax.SourceLine(crlf, 1)
	testutil.ExpectEq(t, "ab", string(line))
	testutil.ExpectEq(t, uint32(0), start)
}
