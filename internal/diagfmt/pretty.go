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
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/burrbull/bitbag/syntax"
)

type PrettyOpts struct {
	Color bool
	// HideSource suppresses the source excerpt under each diagnostic.
	HideSource bool
}

type palette struct {
	err, warning, note, location, underline *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		err:       color.New(color.FgRed, color.Bold),
		warning:   color.New(color.FgYellow, color.Bold),
		note:      color.New(color.FgCyan, color.Bold),
		location:  color.New(color.Bold),
		underline: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warning, p.note, p.location, p.underline} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) severity(sev Severity) *color.Color {
	switch sev {
	case SevWarning:
		return p.warning
	case SevNote:
		return p.note
	}
	return p.err
}

// Pretty writes each diagnostic of file as
//
//	<path>:<line>:<col>: <severity> <code>: <message>
//
// followed by the source line with the span underlined as ^~~~, then its
// notes in the same format.
func Pretty(w io.Writer, file *File, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var buf strings.Builder
	for ii := range file.Diagnostics {
		diag := &file.Diagnostics[ii]
		p.header(&buf, file, diag)
		if !opts.HideSource {
			p.excerpt(&buf, file.Src, diag.Span, diag.Severity)
		}
		for jj := range diag.Notes {
			note := &diag.Notes[jj]
			p.header(&buf, file, note)
			if !opts.HideSource {
				p.excerpt(&buf, file.Src, note.Span, note.Severity)
			}
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func (p *palette) header(buf *strings.Builder, file *File, diag *Diagnostic) {
	pos := syntax.SourcePosition(file.Src, diag.Span.Start())
	location := p.location.Sprintf("%s:%d:%d:", file.Path, pos.Line, pos.Column)
	sev := p.severity(diag.Severity)
	if diag.Severity == SevNote {
		fmt.Fprintf(buf, "%s %s %s\n", location, sev.Sprint("note:"), diag.Message)
		return
	}
	label := fmt.Sprintf("%s %s:", diag.Severity, diag.ID())
	fmt.Fprintf(buf, "%s %s %s\n", location, sev.Sprint(label), diag.Message)
}

func (p *palette) excerpt(buf *strings.Builder, src []byte, span syntax.Span, sev Severity) {
	line, lineStart := syntax.SourceLine(src, span.Start())
	pos := syntax.SourcePosition(src, span.Start())
	gutter := strconv.Itoa(pos.Line)
	blank := strings.Repeat(" ", len(gutter))

	startInLine := min(span.Start()-lineStart, lineLen(line))
	endInLine := max(min(span.End()-lineStart, lineLen(line)), startInLine)

	var indent strings.Builder
	for _, r := range string(line[:startInLine]) {
		if r == '\t' {
			indent.WriteByte('\t')
		} else {
			indent.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	width := runewidth.StringWidth(string(line[startInLine:endInLine]))
	if width < 1 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)
	if sev == SevNote {
		underline = strings.Repeat("-", width)
	}

	fmt.Fprintf(buf, "%s | %s\n", gutter, line)
	fmt.Fprintf(buf, "%s | %s%s\n", blank, indent.String(), p.underline.Sprint(underline))
}

func lineLen(line []byte) uint32 {
	n, err := safecast.Conv[uint32](len(line))
	if err != nil {
		return 0
	}
	return n
}
