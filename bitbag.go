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

// Package bitbag is the runtime used by code generated from .bitbag
// declarations: a set of enum flags stored as the union of their
// representation bits.
package bitbag

import (
	"fmt"
	"iter"
)

// Repr is the set of Go types an enum can be represented as.
type Repr interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		int | uint | Int128 | Uint128
}

// Widen converts a representation value to 128 bits, sign-extending
// signed values.
func Widen[R Repr](v R) Uint128 {
	switch v := any(v).(type) {
	case int8:
		return widenSigned(int64(v))
	case int16:
		return widenSigned(int64(v))
	case int32:
		return widenSigned(int64(v))
	case int64:
		return widenSigned(v)
	case int:
		return widenSigned(int64(v))
	case uint8:
		return Uint128From64(uint64(v))
	case uint16:
		return Uint128From64(uint64(v))
	case uint32:
		return Uint128From64(uint64(v))
	case uint64:
		return Uint128From64(v)
	case uint:
		return Uint128From64(uint64(v))
	case Int128:
		return v.Uint128()
	case Uint128:
		return v
	}
	panic(fmt.Sprintf("bitbag: unsupported representation %T", v))
}

func widenSigned(v int64) Uint128 {
	return Int128From64(v).Uint128()
}

// Flag is implemented by every generated BitBaggable type.
type Flag interface {
	ReprBits() Uint128
}

type BitBaggable[T any, R Repr] interface {
	Flag
	IntoRepr() R
	Variants() []Variant[T, R]
}

// Variant is one row of a generated variant table.
type Variant[T any, R Repr] struct {
	Name  string
	Value T
	Repr  R
}

type BitBag[T Flag] struct {
	bits Uint128
}

func Empty[T Flag]() BitBag[T] {
	return BitBag[T]{}
}

// Set adds v to the bag. Adding a flag that is already present leaves the
// bag unchanged.
func (b *BitBag[T]) Set(v T) *BitBag[T] {
	b.bits = b.bits.Or(v.ReprBits())
	return b
}

func (b *BitBag[T]) Unset(v T) *BitBag[T] {
	b.bits = b.bits.AndNot(v.ReprBits())
	return b
}

func (b BitBag[T]) IsSet(v T) bool {
	bits := v.ReprBits()
	return b.bits.And(bits) == bits
}

func (b BitBag[T]) IsEmpty() bool {
	return b.bits.IsZero()
}

func (b BitBag[T]) Bits() Uint128 {
	return b.bits
}

func (b BitBag[T]) String() string {
	return fmt.Sprintf("BitBag(%s)", b.bits.Hex())
}

// Iter yields the variants of T present in b, in declaration order.
func Iter[T BitBaggable[T, R], R Repr](b BitBag[T]) iter.Seq[Variant[T, R]] {
	return func(yield func(Variant[T, R]) bool) {
		var zero T
		for _, variant := range zero.Variants() {
			if !b.IsSet(variant.Value) {
				continue
			}
			if !yield(variant) {
				return
			}
		}
	}
}

// Names returns the names of the variants of T present in b.
func Names[T BitBaggable[T, R], R Repr](b BitBag[T]) []string {
	var names []string
	for variant := range Iter[T, R](b) {
		names = append(names, variant.Name)
	}
	return names
}

// FromRepr builds a bag from a raw value. It reports false when raw has
// bits that no variant of T covers.
func FromRepr[T BitBaggable[T, R], R Repr](raw R) (BitBag[T], bool) {
	var zero T
	var known Uint128
	for _, variant := range zero.Variants() {
		known = known.Or(variant.Value.ReprBits())
	}
	bits := Widen(raw)
	if !bits.AndNot(known).IsZero() {
		return BitBag[T]{}, false
	}
	return BitBag[T]{bits: bits}, true
}
