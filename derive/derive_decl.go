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
	"unicode"
	"unicode/utf8"

	"github.com/burrbull/bitbag/syntax"
)

type DeclKind uint8

const (
	DeclEnum DeclKind = iota + 1
	DeclStruct
)

func (k DeclKind) String() string {
	switch k {
	case DeclEnum:
		return "enum"
	case DeclStruct:
		return "struct"
	}
	return "unknown"
}

// Decl is a parsed type declaration with its decorators, in the form the
// validators and expanders consume.
type Decl struct {
	Kind     DeclKind
	Name     string
	Span     syntax.Span
	NameSpan syntax.Span
	Attrs    []*Attr
	Doc      []string

	// Enums only.
	Variants     []*Variant
	VariantsSpan syntax.Span

	// Structs only. Never nil.
	Fields *Fields
}

type Attr struct {
	Name      string
	Span      syntax.Span
	NameSpan  syntax.Span
	HasParens bool
	ArgsSpan  syntax.Span
	Args      []*AttrArg
}

type ArgKind uint8

const (
	ArgIdent ArgKind = iota + 1
	ArgInt
	ArgText
)

func (k ArgKind) String() string {
	switch k {
	case ArgIdent:
		return "identifier"
	case ArgInt:
		return "integer literal"
	case ArgText:
		return "text literal"
	}
	return "unknown"
}

type AttrArg struct {
	Kind ArgKind
	Text string
	Span syntax.Span
}

type Variant struct {
	Name         string
	Span         syntax.Span
	NameSpan     syntax.Span
	Fields       *Fields
	Discriminant *Discriminant
	Doc          []string
}

// HasFields reports whether the variant carries named or positional data.
func (v *Variant) HasFields() bool {
	return v.Fields.Shape != FieldsNone
}

type Discriminant struct {
	Text     string
	Span     syntax.Span
	Negative bool
	// Value holds negative discriminants in two's complement.
	Value uint64
}

func (d *Discriminant) bigValue() *big.Int {
	if d.Negative {
		return big.NewInt(int64(d.Value))
	}
	return new(big.Int).SetUint64(d.Value)
}

type FieldShape uint8

const (
	FieldsNone FieldShape = iota
	FieldsNamed
	FieldsPositional
)

func (s FieldShape) String() string {
	switch s {
	case FieldsNone:
		return "none"
	case FieldsNamed:
		return "named"
	case FieldsPositional:
		return "positional"
	}
	return "unknown"
}

type Fields struct {
	Shape FieldShape
	Span  syntax.Span
	List  []*Field
}

type Field struct {
	// Empty for positional fields.
	Name string
	Type string
	Span syntax.Span
}

// Lower converts every enum and struct in schema into a Decl, in source
// order.
func Lower(schema *syntax.Schema) []*Decl {
	var decls []*Decl
	var docs docCollector
	for node := range schema.ChildNodes() {
		switch node := node.(type) {
		case *syntax.Enum:
			decls = append(decls, lowerEnum(node, docs.take()))
		case *syntax.Struct:
			decls = append(decls, lowerStruct(node, docs.take()))
		default:
			docs.observe(node)
		}
	}
	return decls
}

func lowerEnum(node *syntax.Enum, doc []string) *Decl {
	decl := &Decl{
		Kind:     DeclEnum,
		Name:     node.Name().Get(),
		Span:     declSpan(node, node.Span()),
		NameSpan: node.Name().Span(),
		Attrs:    lowerAttrs(node.Decorators()),
		Doc:      doc,
		Fields:   &Fields{},
	}

	var docs docCollector
	for child := range node.ChildNodes() {
		if variant, ok := child.(*syntax.Variant); ok {
			decl.Variants = append(decl.Variants, lowerVariant(variant, docs.take()))
		} else {
			docs.observe(child)
		}
	}

	if len(decl.Variants) > 0 {
		first := decl.Variants[0].Span
		last := decl.Variants[len(decl.Variants)-1].Span
		decl.VariantsSpan = first.Cover(last)
	} else {
		decl.VariantsSpan = node.Span()
	}
	return decl
}

func lowerStruct(node *syntax.Struct, doc []string) *Decl {
	span := node.Name().Span()
	fields := lowerFields(node.Fields())
	if fields.Shape != FieldsNone {
		span = span.Cover(fields.Span)
	}
	return &Decl{
		Kind:     DeclStruct,
		Name:     node.Name().Get(),
		Span:     declSpan(node, span),
		NameSpan: node.Name().Span(),
		Attrs:    lowerAttrs(node.Decorators()),
		Doc:      doc,
		Fields:   fields,
	}
}

// declSpan extends body to cover the declaration keyword and any
// decorators.
func declSpan(node syntax.Decl, body syntax.Span) syntax.Span {
	start := node.Span().Start()
	if decorators := node.Decorators(); len(decorators) > 0 {
		start = decorators[0].Span().Start()
	}
	return syntax.NewSpan(start, body.End()-start)
}

func lowerVariant(node *syntax.Variant, doc []string) *Variant {
	variant := &Variant{
		Name:     node.Name().Get(),
		Span:     node.Name().Span(),
		NameSpan: node.Name().Span(),
		Fields:   lowerFields(node.Fields()),
		Doc:      doc,
	}
	if variant.Fields.Shape != FieldsNone {
		variant.Span = variant.Span.Cover(variant.Fields.Span)
	}
	if value := node.Value(); value != nil {
		disc := &Discriminant{
			Text:     value.Raw(),
			Span:     value.Span(),
			Negative: value.IsNegative(),
		}
		if disc.Negative {
			v, _ := value.GetInt64()
			disc.Value = uint64(v)
		} else {
			disc.Value, _ = value.GetUint64()
		}
		variant.Discriminant = disc
		variant.Span = variant.Span.Cover(disc.Span)
	}
	return variant
}

func lowerFields(node *syntax.Fields) *Fields {
	if node == nil {
		return &Fields{Shape: FieldsNone}
	}
	fields := &Fields{
		Shape: FieldsNamed,
		Span:  node.Span(),
	}
	if node.IsPositional() {
		fields.Shape = FieldsPositional
	}
	for _, field := range node.Fields() {
		lowered := &Field{
			Type: field.Type().String(),
			Span: field.Span(),
		}
		if name := field.Name(); name != nil {
			lowered.Name = name.Get()
		}
		fields.List = append(fields.List, lowered)
	}
	return fields
}

func lowerAttrs(decorators []*syntax.Decorator) []*Attr {
	attrs := make([]*Attr, 0, len(decorators))
	for _, decorator := range decorators {
		attr := &Attr{
			Name:     decorator.Name().Get(),
			Span:     decorator.Span(),
			NameSpan: decorator.Name().Span(),
		}
		if args := decorator.Args(); args != nil {
			attr.HasParens = true
			attr.ArgsSpan = args.Span()
			for arg := range args.Values() {
				attr.Args = append(attr.Args, lowerAttrArg(arg))
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func lowerAttrArg(node syntax.Node) *AttrArg {
	arg := &AttrArg{Span: node.Span()}
	switch node := node.(type) {
	case *syntax.Ident:
		arg.Kind = ArgIdent
		arg.Text = node.Get()
	case *syntax.IntLit:
		arg.Kind = ArgInt
		arg.Text = node.Raw()
	case *syntax.TextLit:
		arg.Kind = ArgText
		arg.Text = node.Get()
	}
	return arg
}

// docCollector accumulates "##" comments until they are claimed by the
// next declaration. A blank line or a plain comment discards them.
type docCollector struct {
	lines    []string
	newlines int
}

func (d *docCollector) observe(node syntax.Node) {
	switch node := node.(type) {
	case *syntax.Comment:
		d.newlines = 0
		if node.IsDocComment() {
			d.lines = append(d.lines, node.DocText())
		} else {
			d.lines = nil
		}
	case *syntax.Newline:
		d.newlines++
		if d.newlines > 1 {
			d.lines = nil
		}
	case *syntax.Space:
	default:
		d.newlines = 0
	}
}

func (d *docCollector) take() []string {
	lines := d.lines
	d.lines = nil
	d.newlines = 0
	return lines
}

// exportName upper-cases the first letter of name.
func exportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
