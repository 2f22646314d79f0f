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

package bitbag_test

import (
	"math"
	"testing"

	"github.com/burrbull/bitbag"
	"github.com/burrbull/bitbag/internal/testutil"
)

func TestOrTwoVariants(t *testing.T) {
	bag := FlagsA.Or(FlagsB)
	testutil.ExpectTrue(t, bag.IsSet(FlagsA))
	testutil.ExpectTrue(t, bag.IsSet(FlagsB))
	testutil.ExpectFalse(t, bag.IsSet(FlagsC))
	testutil.ExpectSliceEq(t, []string{"A", "B"}, bitbag.Names[Flags, uint8](bag))
	testutil.ExpectEq(t, bitbag.Uint128From64(3), bag.Bits())
}

func TestOrSameVariant(t *testing.T) {
	bag := FlagsC.Or(FlagsC)
	testutil.ExpectSliceEq(t, []string{"C"}, bitbag.Names[Flags, uint8](bag))
}

func TestOrBagIdempotent(t *testing.T) {
	bag := FlagsA.Or(FlagsB)
	again := FlagsA.OrBag(bag)
	testutil.ExpectEq(t, bag, again)

	grown := FlagsC.OrBag(bag)
	testutil.ExpectSliceEq(t, []string{"A", "B", "C"}, bitbag.Names[Flags, uint8](grown))

	// The argument is passed by value.
	testutil.ExpectFalse(t, bag.IsSet(FlagsC))
}

func TestVariantTable(t *testing.T) {
	want := []bitbag.Variant[Flags, uint8]{
		{Name: "A", Value: FlagsA, Repr: 1},
		{Name: "B", Value: FlagsB, Repr: 2},
		{Name: "C", Value: FlagsC, Repr: 4},
	}
	testutil.ExpectSliceEq(t, want, Flags(0).Variants())

	for _, variant := range Flags(0).Variants() {
		testutil.ExpectEq(t, variant.Repr, variant.Value.IntoRepr())
		testutil.ExpectEq(t, bitbag.Uint128From64(uint64(variant.Repr)), variant.Value.ReprBits())
	}
}

func TestBitBagSetUnset(t *testing.T) {
	bag := bitbag.Empty[Flags]()
	testutil.ExpectTrue(t, bag.IsEmpty())
	testutil.ExpectEq(t, "BitBag(0x0)", bag.String())

	bag.Set(FlagsA).Set(FlagsC)
	testutil.ExpectEq(t, "BitBag(0x5)", bag.String())

	bag.Set(FlagsA)
	testutil.ExpectEq(t, "BitBag(0x5)", bag.String())

	bag.Unset(FlagsA)
	testutil.ExpectFalse(t, bag.IsSet(FlagsA))
	testutil.ExpectTrue(t, bag.IsSet(FlagsC))

	bag.Unset(FlagsC)
	testutil.ExpectTrue(t, bag.IsEmpty())
}

func TestIter(t *testing.T) {
	bag := FlagsC.Or(FlagsA)
	var got []Flags
	for variant := range bitbag.Iter[Flags, uint8](bag) {
		got = append(got, variant.Value)
	}
	testutil.ExpectSliceEq(t, []Flags{FlagsA, FlagsC}, got)

	for range bitbag.Iter[Flags, uint8](bag) {
		break
	}
}

func TestFromRepr(t *testing.T) {
	bag, ok := bitbag.FromRepr[Flags](uint8(5))
	testutil.ExpectTrue(t, ok)
	testutil.ExpectSliceEq(t, []string{"A", "C"}, bitbag.Names[Flags, uint8](bag))

	_, ok = bitbag.FromRepr[Flags](uint8(8))
	testutil.ExpectFalse(t, ok)

	bag, ok = bitbag.FromRepr[Flags](uint8(0))
	testutil.ExpectTrue(t, ok)
	testutil.ExpectTrue(t, bag.IsEmpty())
}

func TestWide(t *testing.T) {
	testutil.ExpectEq(t, bitbag.Int128From64(math.MinInt64), WideNeg.IntoRepr())
	testutil.ExpectEq(t, bitbag.Uint128{Hi: math.MaxUint64, Lo: 1 << 63}, WideNeg.ReprBits())
	testutil.ExpectEq(t, "-9223372036854775808", WideNeg.IntoRepr().String())

	bag := WideLow.Or(WideNeg)
	testutil.ExpectTrue(t, bag.IsSet(WideLow))
	testutil.ExpectTrue(t, bag.IsSet(WideNeg))
	testutil.ExpectSliceEq(t, []string{"Low", "Neg"}, bitbag.Names[Wide, bitbag.Int128](bag))
}

func TestWiden(t *testing.T) {
	testutil.ExpectEq(t, bitbag.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}, bitbag.Widen(int8(-1)))
	testutil.ExpectEq(t, bitbag.Uint128{Lo: 0xFF}, bitbag.Widen(uint8(0xFF)))
	testutil.ExpectEq(t, bitbag.Uint128{Lo: math.MaxUint64}, bitbag.Widen(uint64(math.MaxUint64)))
	testutil.ExpectEq(t, bitbag.Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64 - 1}, bitbag.Widen(-2))
	testutil.ExpectEq(t, bitbag.Uint128{Hi: 1, Lo: 2}, bitbag.Widen(bitbag.Uint128{Hi: 1, Lo: 2}))
}

func TestInt128Strings(t *testing.T) {
	testutil.ExpectEq(t, "18446744073709551616", bitbag.Uint128{Hi: 1}.String())
	testutil.ExpectEq(t, "0x10000000000000000", bitbag.Uint128{Hi: 1}.Hex())
	testutil.ExpectEq(t, "0x2a", bitbag.Uint128From64(42).Hex())
	testutil.ExpectEq(t, "-1", bitbag.Int128From64(-1).String())
	testutil.ExpectEq(t, "42", bitbag.Int128From64(42).String())
	testutil.ExpectTrue(t, bitbag.Int128From64(-1).IsNegative())
	testutil.ExpectFalse(t, bitbag.Int128{Hi: math.MaxInt64}.IsNegative())
	testutil.ExpectEq(
		t,
		"-170141183460469231731687303715884105728",
		bitbag.Int128{Hi: 1 << 63}.String(),
	)
}
