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

// Package diagfmt renders syntax errors, derive errors, and derive
// warnings for people (Pretty) and for tools (JSON).
package diagfmt

import (
	"errors"
	"fmt"

	"github.com/burrbull/bitbag/derive"
	"github.com/burrbull/bitbag/syntax"
)

type Severity uint8

const (
	SevError Severity = iota
	SevWarning
	SevNote
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevNote:
		return "note"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

type Diagnostic struct {
	Severity Severity
	Code     uint32
	Message  string
	Span     syntax.Span
	Notes    []Diagnostic
}

// ID is the code as printed, e.g. "E3003" or "W4000".
func (d *Diagnostic) ID() string {
	if d.Severity == SevWarning {
		return fmt.Sprintf("W%d", d.Code)
	}
	return fmt.Sprintf("E%d", d.Code)
}

// File groups the diagnostics reported for one source file.
type File struct {
	Path        string
	Src         []byte
	Diagnostics []Diagnostic
}

func (f *File) HasErrors() bool {
	for _, diag := range f.Diagnostics {
		if diag.Severity == SevError {
			return true
		}
	}
	return false
}

// FromError converts a parse failure. Errors that are not *syntax.Error
// carry no position and are reported as false.
func FromError(err error) (Diagnostic, bool) {
	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Severity: SevError,
		Code:     syntaxErr.Code(),
		Message:  syntaxErr.Message(),
		Span:     syntaxErr.Span(),
	}, true
}

func FromDeriveError(err *derive.Error) Diagnostic {
	diag := Diagnostic{
		Severity: SevError,
		Code:     err.Code(),
		Message:  err.Message(),
		Span:     err.Span(),
	}
	for _, note := range err.Notes() {
		diag.Notes = append(diag.Notes, Diagnostic{
			Severity: SevNote,
			Code:     note.Code(),
			Message:  note.Message(),
			Span:     note.Span(),
		})
	}
	return diag
}

func FromWarning(warning *derive.Warning) Diagnostic {
	return Diagnostic{
		Severity: SevWarning,
		Code:     warning.Code(),
		Message:  warning.Message(),
		Span:     warning.Span(),
	}
}

// FromResult lists the errors of result followed by its warnings.
func FromResult(result *derive.Result) []Diagnostic {
	diags := make([]Diagnostic, 0, len(result.Errors)+len(result.Warnings))
	for _, err := range result.Errors {
		diags = append(diags, FromDeriveError(err))
	}
	for _, warning := range result.Warnings {
		diags = append(diags, FromWarning(warning))
	}
	return diags
}
