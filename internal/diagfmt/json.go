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

package diagfmt

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/burrbull/bitbag/syntax"
)

type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

type NoteJSON struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(file *File, span syntax.Span) LocationJSON {
	pos := syntax.SourcePosition(file.Src, span.Start())
	return LocationJSON{
		File:      file.Path,
		StartByte: span.Start(),
		EndByte:   span.End(),
		Line:      pos.Line,
		Column:    pos.Column,
	}
}

// BuildDiagnosticsOutput collects the diagnostics of every file, in order.
func BuildDiagnosticsOutput(files []*File) DiagnosticsOutput {
	diagnostics := []DiagnosticJSON{}
	for _, file := range files {
		for ii := range file.Diagnostics {
			diag := &file.Diagnostics[ii]
			diagJSON := DiagnosticJSON{
				Severity: diag.Severity.String(),
				Code:     diag.ID(),
				Message:  diag.Message,
				Location: makeLocation(file, diag.Span),
			}
			for jj := range diag.Notes {
				note := &diag.Notes[jj]
				diagJSON.Notes = append(diagJSON.Notes, NoteJSON{
					Code:     note.ID(),
					Message:  note.Message,
					Location: makeLocation(file, note.Span),
				})
			}
			diagnostics = append(diagnostics, diagJSON)
		}
	}
	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

func JSON(w io.Writer, files []*File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(files))
}
