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

	"github.com/burrbull/bitbag/syntax"
)

type Warning struct {
	code    uint32
	message string
	span    syntax.Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Span() syntax.Span {
	return w.span
}

func warnUnknownDerive(name string, span syntax.Span) *Warning {
	return &Warning{
		code:    4000,
		message: fmt.Sprintf("Unknown derive '%s' is ignored", name),
		span:    span,
	}
}

func warnDuplicateDerive(name string, span syntax.Span) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Duplicate derive '%s'", name),
		span:    span,
	}
}

func warnUnknownDecorator(name string, span syntax.Span) *Warning {
	return &Warning{
		code:    4002,
		message: fmt.Sprintf("Unknown decorator '@%s' is ignored", name),
		span:    span,
	}
}

func warnReprWithoutCapability(name string, span syntax.Span) *Warning {
	return &Warning{
		code: 4003,
		message: fmt.Sprintf(
			"@repr(..) on struct '%s' has no effect without @derive(%s)",
			name, DeriveBitBaggable,
		),
		span: span,
	}
}

func warnOperatorWithoutCapability(name string, span syntax.Span) *Warning {
	return &Warning{
		code: 4004,
		message: fmt.Sprintf(
			"@derive(%s) on '%s' requires @derive(%s) to compile",
			DeriveBitOr, name, DeriveBitBaggable,
		),
		span: span,
	}
}
