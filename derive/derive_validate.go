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
	"math/big"
)

// ValidEnum is a declaration accepted for BitBaggable expansion.
type ValidEnum struct {
	Decl     *Decl
	Variants []*Variant
	Repr     Repr
}

// ExtractEnumAndRepr checks that decl is a field-less enum with a single
// supported @repr. A non-enum or a bad @repr is reported on its own; field
// violations are collected from every variant into one error.
func ExtractEnumAndRepr(decl *Decl) (*ValidEnum, *Error) {
	if decl.Kind != DeclEnum {
		return nil, errNotAnEnum(decl.Name, decl.Kind, decl.Span)
	}
	repr, err := ResolveRepr(decl)
	if err != nil {
		return nil, err
	}

	var fieldsErr *Error
	for _, variant := range decl.Variants {
		if !variant.HasFields() {
			continue
		}
		if fieldsErr == nil {
			fieldsErr = errFieldlessEnumsOnly(decl.VariantsSpan)
		}
		fieldsErr = combineInto(fieldsErr, errVariantHasFields(variant.Name, variant.Fields.Span))
	}
	if fieldsErr != nil {
		return nil, fieldsErr
	}
	if err := checkDiscriminants(decl, repr); err != nil {
		return nil, err
	}

	return &ValidEnum{
		Decl:     decl,
		Variants: decl.Variants,
		Repr:     repr,
	}, nil
}

// checkDiscriminants reports every variant whose explicit or implicit
// discriminant does not fit the storage of repr. Later failures are
// combined into the first.
func checkDiscriminants(decl *Decl, repr Repr) *Error {
	lo, hi := repr.storageRange()
	one := big.NewInt(1)
	next := new(big.Int)
	var acc *Error
	for _, variant := range decl.Variants {
		value := next
		text := ""
		span := variant.NameSpan
		if disc := variant.Discriminant; disc != nil {
			value = disc.bigValue()
			text = disc.Text
			span = disc.Span
		}
		if value.Cmp(lo) < 0 || value.Cmp(hi) > 0 {
			if text == "" {
				text = value.String()
			}
			acc = combineInto(acc, errDiscriminantOutOfRange(variant.Name, text, repr, lo, hi, span))
		}
		next = new(big.Int).Add(value, one)
	}
	return acc
}
