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
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	start := min(s.start, other.start)
	end := max(s.End(), other.End())
	return Span{start, end - start}
}

type Node interface {
	Span() Span

	ChildNodes() iter.Seq[Node]

	privChildren() []Node

	UnparseTo(buf *bytes.Buffer)
}

func Unparse(node Node) string {
	var buf bytes.Buffer
	node.UnparseTo(&buf)
	return buf.String()
}

func Walk(node Node, walkFn func(Node) bool) {
	if node == nil || !walkFn(node) {
		return
	}
	for _, child := range node.privChildren() {
		Walk(child, walkFn)
	}
	walkFn(nil)
}

func iterChildren(childNodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes {
			if !yield(child) {
				return
			}
		}
	}
}

type leafNode struct{}

func (*leafNode) ChildNodes() iter.Seq[Node] {
	return func(_yield func(Node) bool) {}
}

func (*leafNode) privChildren() []Node {
	return nil
}

type branchNode struct {
	span       Span
	childNodes []Node
}

func (n *branchNode) Span() Span {
	return n.span
}

func (n *branchNode) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *branchNode) privChildren() []Node {
	return n.childNodes
}

func (n *branchNode) UnparseTo(buf *bytes.Buffer) {
	for _, childNode := range n.childNodes {
		childNode.UnparseTo(buf)
	}
}

type Space struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Space)(nil)

func (n *Space) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *Space) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

type Newline struct {
	leafNode
	start uint32
	crlf  bool
}

var _ Node = (*Newline)(nil)

func (n *Newline) Span() Span {
	var len uint32
	if n.crlf {
		len = 2
	} else {
		len = 1
	}
	return Span{
		start: n.start,
		len:   len,
	}
}

func (n *Newline) UnparseTo(buf *bytes.Buffer) {
	if n.crlf {
		buf.WriteString("\r\n")
	} else {
		buf.WriteByte('\n')
	}
}

type Comment struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Comment)(nil)

func (n *Comment) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *Comment) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Comment) Text() string {
	return n.raw
}

func (n *Comment) IsDocComment() bool {
	return strings.HasPrefix(n.raw, "##")
}

// DocText returns the comment text without its leading "##" and one
// following space.
func (n *Comment) DocText() string {
	text := strings.TrimPrefix(n.raw, "##")
	return strings.TrimPrefix(text, " ")
}

type IntLit struct {
	leafNode
	raw   string
	value uint64
	start uint32
}

var _ Node = (*IntLit)(nil)

func (n *IntLit) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *IntLit) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func newIntLit(token string, kind TokenKind, start uint32) (*IntLit, error) {
	base := 10
	valueStr := token
	if valueStr[0] == '-' {
		valueStr = valueStr[1:]
	}
	switch kind {
	case T_BIN_INT_LIT:
		base = 2
		valueStr = valueStr[2:]
	case T_OCT_INT_LIT:
		base = 8
		valueStr = valueStr[2:]
	case T_DEC_INT_LIT:
		base = 10
		valueStr = valueStr[2:]
	case T_HEX_INT_LIT:
		base = 16
		valueStr = valueStr[2:]
	}
	valueStr = strings.ReplaceAll(valueStr, "_", "")

	value, err := strconv.ParseUint(valueStr, base, 64)
	if err != nil {
		return nil, errIntLitTooPositive(token, start)
	}
	if token[0] == '-' {
		if value > (uint64(math.MaxInt64) + 1) {
			return nil, errIntLitTooNegative(token, start)
		}
		value = uint64(-int64(value))
	}

	return &IntLit{
		raw:   token,
		value: value,
		start: start,
	}, nil
}

func (n *IntLit) Raw() string {
	return n.raw
}

func (n *IntLit) IsNegative() bool {
	return n.raw[0] == '-'
}

func (n *IntLit) GetUint64() (uint64, bool) {
	if n.raw[0] != '-' {
		return n.value, true
	}
	return 0, false
}

func (n *IntLit) GetInt64() (int64, bool) {
	if n.raw[0] == '-' || n.value <= math.MaxInt64 {
		return int64(n.value), true
	}
	return 0, false
}

type TextLit struct {
	leafNode
	raw   string
	value string
	start uint32
}

var _ Node = (*TextLit)(nil)

func (n *TextLit) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *TextLit) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func newTextLit(token string, start uint32, flags uint8) (*TextLit, error) {
	value := token[1 : len(token)-1]
	if flags&tokenFlagTextHasNoEscapes != 0 {
		return &TextLit{
			raw:   token,
			value: value,
			start: start,
		}, nil
	}

	invalid := func() (*TextLit, error) {
		return nil, errTextLitInvalid(start, token)
	}

	var buf bytes.Buffer
	escaped := false
	for len(value) > 0 {
		c := value[0]
		if !escaped {
			if c == '\\' {
				escaped = true
			} else {
				buf.WriteByte(c)
			}
			value = value[1:]
			continue
		}
		escaped = false

		switch c {
		case '"', '\\':
			buf.WriteByte(c)
			value = value[1:]
		case 'n':
			buf.WriteByte('\n')
			value = value[1:]
		case 't':
			buf.WriteByte('\t')
			value = value[1:]
		case 'x':
			if len(value) < 3 {
				return invalid()
			}
			b, err := strconv.ParseUint(value[1:3], 16, 8)
			if err != nil || b > 0x7F {
				return invalid()
			}
			buf.WriteByte(uint8(b))
			value = value[3:]
		case 'u':
			value = value[1:]
			if len(value) == 0 || value[0] != '{' {
				return invalid()
			}
			value = value[1:]

			end := strings.IndexByte(value, '}')
			if end <= 0 || end > 6 {
				return invalid()
			}
			scalar, err := strconv.ParseUint(value[:end], 16, 32)
			if err != nil || scalar > 0x10FFFF {
				return invalid()
			}
			value = value[end+1:]
			buf.WriteRune(rune(scalar))
		default:
			return invalid()
		}
	}
	if escaped {
		return invalid()
	}
	return &TextLit{
		raw:   token,
		value: buf.String(),
		start: start,
	}, nil
}

func (n *TextLit) Get() string {
	return n.value
}

type Sigil struct {
	leafNode
	raw   byte
	start uint32
}

var _ Node = (*Sigil)(nil)

func (n *Sigil) Span() Span {
	return Span{
		start: n.start,
		len:   1,
	}
}

func (n *Sigil) UnparseTo(buf *bytes.Buffer) {
	buf.WriteByte(n.raw)
}

type Ident struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Ident)(nil)

func (n *Ident) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *Ident) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Ident) Get() string {
	return n.raw
}

type Keyword struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Keyword)(nil)

func (n *Keyword) Span() Span {
	return Span{
		start: n.start,
		len:   spanLen(len(n.raw)),
	}
}

func (n *Keyword) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

type TypeName struct {
	branchNode
	scope *Ident
	name  *Ident
}

var _ Node = (*TypeName)(nil)

func (n *TypeName) Scope() *Ident {
	return n.scope
}

func (n *TypeName) Name() *Ident {
	return n.name
}

// String returns the type name as written, including any scope.
func (n *TypeName) String() string {
	if n.scope != nil {
		return n.scope.Get() + "." + n.name.Get()
	}
	return n.name.Get()
}

type Schema struct {
	branchNode
}

var _ Node = (*Schema)(nil)

// Decls returns the top-level declarations in source order.
func (n *Schema) Decls() iter.Seq[Decl] {
	return func(yield func(Decl) bool) {
		for _, child := range n.childNodes {
			if decl, ok := child.(Decl); ok {
				if !yield(decl) {
					return
				}
			}
		}
	}
}

// Decl is implemented by *Enum and *Struct.
type Decl interface {
	Node
	Name() *Ident
	Decorators() []*Decorator
}

type Decorator struct {
	branchNode
	name *Ident
	args *DecoratorArgs
}

var _ Node = (*Decorator)(nil)

func (n *Decorator) Name() *Ident {
	return n.name
}

// Args returns nil when the decorator was written without parentheses.
func (n *Decorator) Args() *DecoratorArgs {
	return n.args
}

type DecoratorArgs struct {
	branchNode
	args []Node
}

var _ Node = (*DecoratorArgs)(nil)

// Values yields each argument, which is an *Ident, *IntLit, or *TextLit.
func (n *DecoratorArgs) Values() iter.Seq[Node] {
	return slices.Values(n.args)
}

func (n *DecoratorArgs) Len() int {
	return len(n.args)
}

type Enum struct {
	branchNode
	name       *Ident
	variants   []*Variant
	decorators []*Decorator
}

var _ Node = (*Enum)(nil)
var _ Decl = (*Enum)(nil)

func (n *Enum) Name() *Ident {
	return n.name
}

func (n *Enum) Variants() []*Variant {
	return n.variants
}

func (n *Enum) Decorators() []*Decorator {
	return n.decorators
}

func (n *Enum) setDecorators(decorators []*Decorator) {
	n.decorators = decorators
}

type Variant struct {
	branchNode
	name   *Ident
	fields *Fields
	value  *IntLit
}

var _ Node = (*Variant)(nil)

func (n *Variant) Name() *Ident {
	return n.name
}

// Fields returns nil for a field-less variant.
func (n *Variant) Fields() *Fields {
	return n.fields
}

// Value returns the explicit discriminant, or nil.
func (n *Variant) Value() *IntLit {
	return n.value
}

type Struct struct {
	branchNode
	name       *Ident
	fields     *Fields
	decorators []*Decorator
}

var _ Node = (*Struct)(nil)
var _ Decl = (*Struct)(nil)

func (n *Struct) Name() *Ident {
	return n.name
}

// Fields returns nil for a unit struct.
func (n *Struct) Fields() *Fields {
	return n.fields
}

func (n *Struct) Decorators() []*Decorator {
	return n.decorators
}

func (n *Struct) setDecorators(decorators []*Decorator) {
	n.decorators = decorators
}

type Fields struct {
	branchNode
	positional bool
	fields     []*Field
}

var _ Node = (*Fields)(nil)

// IsPositional reports whether the fields were written as "(T, U)"
// rather than "{ a: T, b: U }".
func (n *Fields) IsPositional() bool {
	return n.positional
}

func (n *Fields) Fields() []*Field {
	return n.fields
}

type Field struct {
	branchNode
	name      *Ident
	fieldType *TypeName
}

var _ Node = (*Field)(nil)

// Name returns nil for positional fields.
func (n *Field) Name() *Ident {
	return n.name
}

func (n *Field) Type() *TypeName {
	return n.fieldType
}
