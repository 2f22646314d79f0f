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
	"strings"
)

type UnitKind uint8

const (
	UnitCapability UnitKind = iota + 1
	UnitOperator
)

func (k UnitKind) String() string {
	switch k {
	case UnitCapability:
		return DeriveBitBaggable
	case UnitOperator:
		return DeriveBitOr
	}
	return "unknown"
}

// Unit is the Go source generated for one derive of one declaration.
type Unit struct {
	Kind     UnitKind
	TypeName string
	Source   string

	// Capability units only.
	Repr    Repr
	Entries []MetadataEntry
}

// MetadataEntry is one row of a variant table: the variant's display name,
// the Go constant holding it, and the expression for its raw value.
type MetadataEntry struct {
	Name  string
	Const string
	Raw   string
}

// VariantConst names the Go constant generated for a variant.
func VariantConst(typeName, variant string) string {
	return typeName + exportName(variant)
}

func variantTable(typeName string) string {
	return "_" + typeName + "_variants"
}

type expander struct {
	runtime string
}

func (e *expander) expandBitBaggable(valid *ValidEnum) *Unit {
	name := valid.Decl.Name
	repr := valid.Repr
	rt := e.runtime
	reprType := repr.GoType(rt)
	table := variantTable(name)

	entries := make([]MetadataEntry, 0, len(valid.Variants))
	for _, variant := range valid.Variants {
		constName := VariantConst(name, variant.Name)
		entries = append(entries, MetadataEntry{
			Name:  variant.Name,
			Const: constName,
			Raw:   repr.Cast(rt, constName),
		})
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "var _ %s.BitBaggable[%s, %s] = %s(0)\n\n", rt, name, reprType, name)
	fmt.Fprintf(&buf, "func (v %s) IntoRepr() %s {\n", name, reprType)
	fmt.Fprintf(&buf, "\treturn %s\n}\n\n", repr.Cast(rt, "v"))
	fmt.Fprintf(&buf, "func (v %s) ReprBits() %s.Uint128 {\n", name, rt)
	fmt.Fprintf(&buf, "\treturn %s.Widen(v.IntoRepr())\n}\n\n", rt)
	fmt.Fprintf(&buf, "func (%s) Variants() []%s.Variant[%s, %s] {\n", name, rt, name, reprType)
	fmt.Fprintf(&buf, "\treturn %s\n}\n\n", table)
	fmt.Fprintf(&buf, "var %s = []%s.Variant[%s, %s]{\n", table, rt, name, reprType)
	for _, entry := range entries {
		fmt.Fprintf(&buf, "\t{Name: %q, Value: %s, Repr: %s},\n", entry.Name, entry.Const, entry.Raw)
	}
	buf.WriteString("}\n")

	return &Unit{
		Kind:     UnitCapability,
		TypeName: name,
		Source:   buf.String(),
		Repr:     repr,
		Entries:  entries,
	}
}

func (e *expander) expandBitOr(name string) *Unit {
	rt := e.runtime
	bag := fmt.Sprintf("%s.BitBag[%s]", rt, name)

	var buf strings.Builder
	fmt.Fprintf(&buf, "func (v %s) Or(rhs %s) %s {\n", name, name, bag)
	fmt.Fprintf(&buf, "\tbag := %s.Empty[%s]()\n", rt, name)
	buf.WriteString("\tbag.Set(v)\n")
	buf.WriteString("\tbag.Set(rhs)\n")
	buf.WriteString("\treturn bag\n}\n\n")
	fmt.Fprintf(&buf, "func (v %s) OrBag(rhs %s) %s {\n", name, bag, bag)
	buf.WriteString("\trhs.Set(v)\n")
	buf.WriteString("\treturn rhs\n}\n")

	return &Unit{
		Kind:     UnitOperator,
		TypeName: name,
		Source:   buf.String(),
	}
}
