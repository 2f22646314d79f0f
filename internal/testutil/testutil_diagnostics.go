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

package testutil

import (
	"io/fs"
	"os"
	"regexp"
	"testing"

	"github.com/goccy/go-json"

	"github.com/burrbull/bitbag/syntax"
)

func TestdataFS() fs.FS {
	return os.DirFS("testdata")
}

// ExpectedDiagnostic is an error or warning listed in an expect.json file.
// Spans are written as the source text they cover, so test inputs can be
// edited without recounting byte offsets.
type ExpectedDiagnostic struct {
	Code    uint32
	Message string
	Pattern *regexp.Regexp
	Span    syntax.Span
	Notes   []*ExpectedDiagnostic
}

type rawDiagnostic struct {
	Code       uint32          `json:"code"`
	Message    string          `json:"message"`
	Pattern    string          `json:"message_pattern"`
	SpanText   string          `json:"span_text"`
	Occurrence int             `json:"occurrence"`
	Notes      []rawDiagnostic `json:"notes"`
}

func LoadExpectedDiagnostics(
	t *testing.T,
	testdata fs.FS,
	jsonPath string,
	src []byte,
) (errs, warnings []*ExpectedDiagnostic) {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Errors   []rawDiagnostic `json:"errors"`
		Warnings []rawDiagnostic `json:"warnings"`
	}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatalf("%s: %v", jsonPath, err)
	}

	for _, diag := range raw.Errors {
		errs = append(errs, convertDiagnostic(t, src, diag))
	}
	for _, diag := range raw.Warnings {
		warnings = append(warnings, convertDiagnostic(t, src, diag))
	}
	return errs, warnings
}

func convertDiagnostic(t *testing.T, src []byte, raw rawDiagnostic) *ExpectedDiagnostic {
	t.Helper()

	if raw.Code == 0 {
		t.Fatalf("expected diagnostic %+v has no code", raw)
	}
	out := &ExpectedDiagnostic{
		Code:    raw.Code,
		Message: raw.Message,
		Span:    SpanOf(t, src, raw.SpanText, raw.Occurrence),
	}
	if raw.Pattern != "" {
		pattern, err := regexp.Compile(raw.Pattern)
		if err != nil {
			t.Fatal(err)
		}
		out.Pattern = pattern
	}
	for _, note := range raw.Notes {
		out.Notes = append(out.Notes, convertDiagnostic(t, src, note))
	}
	return out
}

// Diagnostic is the view of an error or warning that CheckDiagnostic
// compares against an expectation.
type Diagnostic interface {
	Code() uint32
	Message() string
	Span() syntax.Span
}

func CheckDiagnostic(t *testing.T, src []byte, want *ExpectedDiagnostic, got Diagnostic) {
	t.Helper()

	ExpectEq(t, want.Code, got.Code())
	if want.Pattern != nil {
		ExpectMatch(t, want.Pattern, got.Message())
	} else if want.Message != "" {
		ExpectEq(t, want.Message, got.Message())
	}
	if want.Span != got.Span() {
		t.Errorf(
			"E%d: expected span %q %v, got %q %v",
			want.Code,
			SpanText(src, want.Span), want.Span,
			SpanText(src, got.Span()), got.Span(),
		)
	}
}
