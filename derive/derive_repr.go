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
	"strings"
)

// Repr is the integer representation declared with @repr(...).
type Repr uint8

const (
	ReprI8 Repr = iota + 1
	ReprU8
	ReprI16
	ReprU16
	ReprI32
	ReprU32
	ReprI64
	ReprU64
	ReprI128
	ReprU128
	ReprIsize
	ReprUsize
)

var reprNames = [...]string{
	ReprI8:    "i8",
	ReprU8:    "u8",
	ReprI16:   "i16",
	ReprU16:   "u16",
	ReprI32:   "i32",
	ReprU32:   "u32",
	ReprI64:   "i64",
	ReprU64:   "u64",
	ReprI128:  "i128",
	ReprU128:  "u128",
	ReprIsize: "isize",
	ReprUsize: "usize",
}

var reprGoTypes = [...]string{
	ReprI8:    "int8",
	ReprU8:    "uint8",
	ReprI16:   "int16",
	ReprU16:   "uint16",
	ReprI32:   "int32",
	ReprU32:   "uint32",
	ReprI64:   "int64",
	ReprU64:   "uint64",
	ReprI128:  "Int128",
	ReprU128:  "Uint128",
	ReprIsize: "int",
	ReprUsize: "uint",
}

var reprsByName = func() map[string]Repr {
	m := make(map[string]Repr, len(reprNames))
	for _, repr := range Reprs() {
		m[repr.String()] = repr
	}
	return m
}()

// Reprs returns every representation in canonical order.
func Reprs() []Repr {
	return []Repr{
		ReprI8, ReprU8,
		ReprI16, ReprU16,
		ReprI32, ReprU32,
		ReprI64, ReprU64,
		ReprI128, ReprU128,
		ReprIsize, ReprUsize,
	}
}

func ParseRepr(name string) (Repr, bool) {
	repr, ok := reprsByName[name]
	return repr, ok
}

func (r Repr) valid() bool {
	return r >= ReprI8 && r <= ReprUsize
}

func (r Repr) String() string {
	if !r.valid() {
		return "invalid"
	}
	return reprNames[r]
}

func (r Repr) Signed() bool {
	switch r {
	case ReprI8, ReprI16, ReprI32, ReprI64, ReprI128, ReprIsize:
		return true
	}
	return false
}

// Bits is the width of the representation. Pointer-sized reprs report 64.
func (r Repr) Bits() int {
	switch r {
	case ReprI8, ReprU8:
		return 8
	case ReprI16, ReprU16:
		return 16
	case ReprI32, ReprU32:
		return 32
	case ReprI128, ReprU128:
		return 128
	}
	return 64
}

func (r Repr) is128() bool {
	return r == ReprI128 || r == ReprU128
}

// GoType is the Go type returned by IntoRepr. The 128-bit types live in
// the runtime package named by runtime.
func (r Repr) GoType(runtime string) string {
	if !r.valid() {
		return "int"
	}
	if r.is128() {
		return runtime + "." + reprGoTypes[r]
	}
	return reprGoTypes[r]
}

// StorageType is the underlying type of a generated enum type. Go has no
// 128-bit integers, so the wide reprs store their values in 64 bits.
func (r Repr) StorageType() string {
	switch r {
	case ReprI128:
		return "int64"
	case ReprU128:
		return "uint64"
	}
	return r.GoType("")
}

// storageRange is the inclusive range of constants an enum with this repr
// can declare. The 128-bit reprs are limited by their 64-bit storage.
func (r Repr) storageRange() (lo, hi *big.Int) {
	bits := uint(r.Bits())
	if r.is128() {
		bits = 64
	}
	one := big.NewInt(1)
	if r.Signed() {
		hi = new(big.Int).Lsh(one, bits-1)
		lo = new(big.Int).Neg(hi)
		return lo, hi.Sub(hi, one)
	}
	hi = new(big.Int).Lsh(one, bits)
	return new(big.Int), hi.Sub(hi, one)
}

// Cast renders the conversion of an enum-typed operand to the repr's Go
// type. IntoRepr and the variant table are both built from it.
func (r Repr) Cast(runtime, operand string) string {
	switch r {
	case ReprI128:
		return runtime + ".Int128From64(int64(" + operand + "))"
	case ReprU128:
		return runtime + ".Uint128From64(uint64(" + operand + "))"
	}
	return r.GoType(runtime) + "(" + operand + ")"
}

func reprNameList() string {
	names := make([]string, 0, len(reprNames))
	for _, repr := range Reprs() {
		names = append(names, repr.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// ResolveRepr finds the single @repr(...) decorator of decl. Each @repr
// is parsed in order before they are counted, so a malformed or
// unsupported argument is reported even when several are present.
func ResolveRepr(decl *Decl) (Repr, *Error) {
	var found []Repr
	for _, attr := range decl.Attrs {
		if attr.Name != attrRepr {
			continue
		}
		repr, err := parseReprAttr(attr)
		if err != nil {
			return 0, err
		}
		found = append(found, repr)
	}
	switch len(found) {
	case 0:
		return 0, errMissingRepresentation(decl.Name, decl.Span)
	case 1:
		return found[0], nil
	}
	return 0, errMultipleRepresentations(decl.Name, len(found), decl.Span)
}

func parseReprAttr(attr *Attr) (Repr, *Error) {
	if !attr.HasParens {
		return 0, errMalformedRepresentation("missing argument list", attr.Span)
	}
	if len(attr.Args) != 1 {
		return 0, errMalformedRepresentation("expected exactly one argument", attr.ArgsSpan)
	}
	arg := attr.Args[0]
	if arg.Kind != ArgIdent {
		return 0, errMalformedRepresentation("expected identifier, got "+arg.Kind.String(), arg.Span)
	}
	repr, ok := ParseRepr(arg.Text)
	if !ok {
		return 0, errUnsupportedRepresentationType(arg.Text, arg.Span)
	}
	return repr, nil
}

// StorageRepr picks the storage type for an enum that did not ask for
// BitBaggable: the first recognized @repr, else isize.
func StorageRepr(decl *Decl) Repr {
	for _, attr := range decl.Attrs {
		if attr.Name != attrRepr {
			continue
		}
		if repr, err := parseReprAttr(attr); err == nil {
			return repr
		}
	}
	return ReprIsize
}
