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

package derive

import (
	"fmt"
	"iter"
	"math/big"

	"github.com/burrbull/bitbag/syntax"
)

// Error is a diagnostic produced while validating a declaration. Errors
// found in one pass can be merged with Combine; the merged notes keep
// their own codes, messages, and spans.
type Error struct {
	code    uint32
	message string
	span    syntax.Span
	notes   []*Error
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func (err *Error) Notes() []*Error {
	return err.notes
}

// Combine appends other, and every note already attached to it, as notes
// of err.
func (err *Error) Combine(other *Error) {
	err.notes = append(err.notes, &Error{
		code:    other.code,
		message: other.message,
		span:    other.span,
	})
	err.notes = append(err.notes, other.notes...)
}

// All yields err followed by each of its notes.
func (err *Error) All() iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		if !yield(err) {
			return
		}
		for _, note := range err.notes {
			if !yield(note) {
				return
			}
		}
	}
}

func combineInto(acc, err *Error) *Error {
	if acc == nil {
		return err
	}
	acc.Combine(err)
	return acc
}

func errNotAnEnum(name string, kind DeclKind, span syntax.Span) *Error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Only enums are supported, '%s' is a %s", name, kind),
		span:    span,
	}
}

func errMissingRepresentation(name string, span syntax.Span) *Error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Enum '%s' must have a @repr(..) decorator", name),
		span:    span,
	}
}

func errMultipleRepresentations(name string, count int, span syntax.Span) *Error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Enum '%s' must have only one @repr(..) decorator, found %d",
			name, count,
		),
		span: span,
	}
}

func errUnsupportedRepresentationType(got string, span syntax.Span) *Error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Unsupported representation '%s', must be one of %s",
			got, reprNameList(),
		),
		span: span,
	}
}

func errMalformedRepresentation(reason string, span syntax.Span) *Error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("Malformed @repr(..) decorator: %s", reason),
		span:    span,
	}
}

func errFieldlessEnumsOnly(span syntax.Span) *Error {
	return &Error{
		code:    3005,
		message: "Only field-less enums are supported",
		span:    span,
	}
}

func errVariantHasFields(variant string, span syntax.Span) *Error {
	return &Error{
		code:    3005,
		message: fmt.Sprintf("Variant '%s' cannot have fields", variant),
		span:    span,
	}
}

func errMalformedDerive(reason string, span syntax.Span) *Error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("Malformed @derive(..) decorator: %s", reason),
		span:    span,
	}
}

func errDiscriminantOutOfRange(variant, value string, repr Repr, lo, hi *big.Int, span syntax.Span) *Error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Discriminant %s of variant '%s' is out of range for @repr(%s), must be within [%s, %s]",
			value, variant, repr, lo, hi,
		),
		span: span,
	}
}
