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

package syntax

import (
	"bytes"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// SourcePosition maps a byte offset within src to its line and column.
// Offsets past the end of src are clamped.
func SourcePosition(src []byte, offset uint32) Position {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(before, '\n') + 1
	return Position{
		Line:   line,
		Column: utf8.RuneCount(before[lineStart:]) + 1,
	}
}

// SourceLine returns the line of src containing offset, without its line
// terminator, and the byte offset at which that line starts.
func SourceLine(src []byte, offset uint32) ([]byte, uint32) {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	line := src[lineStart:]
	if end := bytes.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, uint32(lineStart)
}
