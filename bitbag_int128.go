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

package bitbag

import (
	"fmt"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

func (a Uint128) Or(b Uint128) Uint128 {
	return Uint128{a.Hi | b.Hi, a.Lo | b.Lo}
}

func (a Uint128) And(b Uint128) Uint128 {
	return Uint128{a.Hi & b.Hi, a.Lo & b.Lo}
}

func (a Uint128) AndNot(b Uint128) Uint128 {
	return Uint128{a.Hi &^ b.Hi, a.Lo &^ b.Lo}
}

func (a Uint128) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

func (a Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(a.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(a.Lo))
}

func (a Uint128) String() string {
	return a.Big().String()
}

func (a Uint128) Hex() string {
	if a.Hi == 0 {
		return fmt.Sprintf("0x%x", a.Lo)
	}
	return fmt.Sprintf("0x%x%016x", a.Hi, a.Lo)
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi, Lo uint64
}

func Int128From64(v int64) Int128 {
	var hi uint64
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int128{hi, uint64(v)}
}

func (a Int128) Uint128() Uint128 {
	return Uint128{a.Hi, a.Lo}
}

func (a Int128) Or(b Int128) Int128 {
	return Int128{a.Hi | b.Hi, a.Lo | b.Lo}
}

func (a Int128) And(b Int128) Int128 {
	return Int128{a.Hi & b.Hi, a.Lo & b.Lo}
}

func (a Int128) AndNot(b Int128) Int128 {
	return Int128{a.Hi &^ b.Hi, a.Lo &^ b.Lo}
}

func (a Int128) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

func (a Int128) IsNegative() bool {
	return a.Hi>>63 == 1
}

func (a Int128) Big() *big.Int {
	v := a.Uint128().Big()
	if a.IsNegative() {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

func (a Int128) String() string {
	return a.Big().String()
}
