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

package diagfmt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/burrbull/bitbag/derive"
	"github.com/burrbull/bitbag/internal/diagfmt"
	"github.com/burrbull/bitbag/internal/testutil"
	"github.com/burrbull/bitbag/syntax"
)

func pretty(t *testing.T, file *diagfmt.File, opts diagfmt.PrettyOpts) string {
	t.Helper()
	var buf bytes.Buffer
	testutil.AssertNoError(t, diagfmt.Pretty(&buf, file, opts))
	return buf.String()
}

func TestPrettyError(t *testing.T) {
	file := &diagfmt.File{
		Path: "flags.bitbag",
		Src:  []byte("@repr(f32)\nenum Flags {}\n"),
		Diagnostics: []diagfmt.Diagnostic{{
			Severity: diagfmt.SevError,
			Code:     3003,
			Message:  "Unsupported representation 'f32'",
			Span:     syntax.NewSpan(6, 3),
		}},
	}
	testutil.ExpectNoDiff(t, ""+
		"flags.bitbag:1:7: error E3003: Unsupported representation 'f32'\n"+
		"1 | @repr(f32)\n"+
		"  |       ^~~\n",
		pretty(t, file, diagfmt.PrettyOpts{}))

	testutil.ExpectNoDiff(t, ""+
		"flags.bitbag:1:7: error E3003: Unsupported representation 'f32'\n",
		pretty(t, file, diagfmt.PrettyOpts{HideSource: true}))
}

func TestPrettyWarningAndNotes(t *testing.T) {
	src := []byte("enum E {\n  D { x: i32 },\n}\n")
	file := &diagfmt.File{
		Path: "e.bitbag",
		Src:  src,
		Diagnostics: []diagfmt.Diagnostic{
			{
				Severity: diagfmt.SevError,
				Code:     3005,
				Message:  "Only field-less enums are supported",
				Span:     testutil.SpanOf(t, src, "D { x: i32 }", 0),
				Notes: []diagfmt.Diagnostic{{
					Severity: diagfmt.SevNote,
					Code:     3005,
					Message:  "Variant 'D' cannot have fields",
					Span:     testutil.SpanOf(t, src, "{ x: i32 }", 0),
				}},
			},
			{
				Severity: diagfmt.SevWarning,
				Code:     4000,
				Message:  "Unknown derive 'Debug' is ignored",
				Span:     testutil.SpanOf(t, src, "E", 0),
			},
		},
	}
	testutil.ExpectNoDiff(t, ""+
		"e.bitbag:2:3: error E3005: Only field-less enums are supported\n"+
		"2 |   D { x: i32 },\n"+
		"  |   ^~~~~~~~~~~~\n"+
		"e.bitbag:2:5: note: Variant 'D' cannot have fields\n"+
		"2 |   D { x: i32 },\n"+
		"  |     ----------\n"+
		"e.bitbag:1:6: warning W4000: Unknown derive 'Debug' is ignored\n"+
		"1 | enum E {\n"+
		"  |      ^\n",
		pretty(t, file, diagfmt.PrettyOpts{}))
}

func TestPrettyAlignment(t *testing.T) {
	src := []byte("## 名前 x\n\tfoo bar\n")
	file := &diagfmt.File{
		Path: "wide.bitbag",
		Src:  src,
		Diagnostics: []diagfmt.Diagnostic{
			{Code: 1, Message: "wide", Span: testutil.SpanOf(t, src, "名前", 0)},
			{Code: 2, Message: "after wide", Span: testutil.SpanOf(t, src, "x", 0)},
			{Code: 3, Message: "after tab", Span: testutil.SpanOf(t, src, "bar", 0)},
		},
	}
	testutil.ExpectNoDiff(t, ""+
		"wide.bitbag:1:4: error E1: wide\n"+
		"1 | ## 名前 x\n"+
		"  |    ^~~~\n"+
		"wide.bitbag:1:7: error E2: after wide\n"+
		"1 | ## 名前 x\n"+
		"  |         ^\n"+
		"wide.bitbag:2:6: error E3: after tab\n"+
		"2 | \tfoo bar\n"+
		"  | \t    ^~~\n",
		pretty(t, file, diagfmt.PrettyOpts{}))
}

func TestPrettyEmptySpanAtEOF(t *testing.T) {
	file := &diagfmt.File{
		Path: "eof.bitbag",
		Src:  []byte("enum"),
		Diagnostics: []diagfmt.Diagnostic{
			{Code: 2012, Message: "Expected identifier", Span: syntax.NewSpan(4, 0)},
		},
	}
	testutil.ExpectNoDiff(t, ""+
		"eof.bitbag:1:5: error E2012: Expected identifier\n"+
		"1 | enum\n"+
		"  |     ^\n",
		pretty(t, file, diagfmt.PrettyOpts{}))
}

func TestPrettyColor(t *testing.T) {
	file := &diagfmt.File{
		Path: "c.bitbag",
		Src:  []byte("enum E {}\n"),
		Diagnostics: []diagfmt.Diagnostic{
			{Code: 3001, Message: "missing", Span: syntax.NewSpan(0, 4)},
		},
	}
	testutil.ExpectContains(t, "\x1b[", pretty(t, file, diagfmt.PrettyOpts{Color: true}))
	testutil.ExpectNotContains(t, "\x1b[", pretty(t, file, diagfmt.PrettyOpts{}))
}

func TestFromResult(t *testing.T) {
	src := []byte(`@repr(u8)
@derive(BitBaggable, Debug)
enum E { A, D { x: i32 } }
`)
	parsed, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)
	result := derive.Derive(parsed)

	diags := diagfmt.FromResult(&result)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", diags)
	}
	testutil.ExpectEq(t, diagfmt.SevError, diags[0].Severity)
	testutil.ExpectEq(t, "E3005", diags[0].ID())
	if len(diags[0].Notes) != 1 {
		t.Fatalf("expected 1 note, got %+v", diags[0].Notes)
	}
	testutil.ExpectEq(t, diagfmt.SevNote, diags[0].Notes[0].Severity)
	testutil.ExpectEq(t, "{ x: i32 }", testutil.SpanText(src, diags[0].Notes[0].Span))
	testutil.ExpectEq(t, diagfmt.SevWarning, diags[1].Severity)
	testutil.ExpectEq(t, "W4000", diags[1].ID())

	file := &diagfmt.File{Diagnostics: diags}
	testutil.ExpectTrue(t, file.HasErrors())
	file.Diagnostics = diags[1:]
	testutil.ExpectFalse(t, file.HasErrors())
}

func TestFromError(t *testing.T) {
	_, err := syntax.Parse([]byte("enum 1"))
	testutil.AssertError(t, err)
	diag, ok := diagfmt.FromError(err)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "E2012", diag.ID())
	testutil.ExpectEq(t, syntax.NewSpan(5, 1), diag.Span)

	_, ok = diagfmt.FromError(errors.New("disk on fire"))
	testutil.ExpectFalse(t, ok)
}

func TestJSON(t *testing.T) {
	src := []byte("@repr(f32)\nenum Flags {}\n")
	files := []*diagfmt.File{
		{
			Path: "a.bitbag",
			Src:  src,
			Diagnostics: []diagfmt.Diagnostic{{
				Severity: diagfmt.SevError,
				Code:     3005,
				Message:  "header",
				Span:     syntax.NewSpan(11, 4),
				Notes: []diagfmt.Diagnostic{{
					Severity: diagfmt.SevNote,
					Code:     3005,
					Message:  "note",
					Span:     syntax.NewSpan(6, 3),
				}},
			}},
		},
		{Path: "b.bitbag"},
	}

	testutil.ExpectCmp(t, diagfmt.DiagnosticsOutput{
		Count: 1,
		Diagnostics: []diagfmt.DiagnosticJSON{{
			Severity: "error",
			Code:     "E3005",
			Message:  "header",
			Location: diagfmt.LocationJSON{File: "a.bitbag", StartByte: 11, EndByte: 15, Line: 2, Column: 1},
			Notes: []diagfmt.NoteJSON{{
				Code:     "E3005",
				Message:  "note",
				Location: diagfmt.LocationJSON{File: "a.bitbag", StartByte: 6, EndByte: 9, Line: 1, Column: 7},
			}},
		}},
	}, diagfmt.BuildDiagnosticsOutput(files))

	var buf bytes.Buffer
	testutil.AssertNoError(t, diagfmt.JSON(&buf, files))
	var decoded diagfmt.DiagnosticsOutput
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	testutil.ExpectCmp(t, diagfmt.BuildDiagnosticsOutput(files), decoded)
	testutil.ExpectTrue(t, strings.HasSuffix(buf.String(), "}\n"))
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertNoError(t, diagfmt.JSON(&buf, nil))
	testutil.ExpectContains(t, `"diagnostics": []`, buf.String())
	testutil.ExpectContains(t, `"count": 0`, buf.String())
}
