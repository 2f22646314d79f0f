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
)

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOptionFunc func(*ParseOptions)

func (fn parseOptionFunc) apply(opts *ParseOptions) {
	fn(opts)
}

// WithoutTrivia discards spaces, newlines, and comments instead of keeping
// them as child nodes. Doc comments are lost, and Unparse no longer
// reproduces the source.
func WithoutTrivia() ParseOption {
	return parseOptionFunc(func(opts *ParseOptions) {
		opts.saveSpaces = false
		opts.saveNewlines = false
		opts.saveComments = false
	})
}

func Parse(src []uint8, opts ...ParseOption) (*Schema, error) {
	return NewParseOptions(opts...).ParseSchema(src)
}

type ParseOptions struct {
	saveSpaces   bool
	saveNewlines bool
	saveComments bool
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{
		saveSpaces:   true,
		saveNewlines: true,
		saveComments: true,
	}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

func (opts *ParseOptions) ParseSchema(src []uint8) (*Schema, error) {
	ctx, err := newParseCtx[Schema](opts, src)
	if err != nil {
		return nil, err
	}
	return parseSchema(ctx)
}

func (opts *ParseOptions) ParseEnum(src []uint8) (*Enum, error) {
	ctx, err := newParseCtx[Enum](opts, src)
	if err != nil {
		return nil, err
	}
	enum, err := parseEnum(ctx)
	if err == nil && enum == nil {
		err = ctx.expectedDeclaration()
	}
	return enum, err
}

func (opts *ParseOptions) ParseStruct(src []uint8) (*Struct, error) {
	ctx, err := newParseCtx[Struct](opts, src)
	if err != nil {
		return nil, err
	}
	structNode, err := parseStruct(ctx)
	if err == nil && structNode == nil {
		err = ctx.expectedDeclaration()
	}
	return structNode, err
}

func (opts *ParseOptions) ParseDecorator(src []uint8) (*Decorator, error) {
	ctx, err := newParseCtx[Decorator](opts, src)
	if err != nil {
		return nil, err
	}
	decorator, err := parseDecorator(ctx)
	if err == nil && decorator == nil {
		err = errExpectedSigil(
			T_AT,
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
	return decorator, err
}

type parseCtx[T any] struct {
	src        []uint8
	opts       *ParseOptions
	tokens     *Tokens
	childNodes []Node
	haveToken  bool
	token      Token
	err        error
	consumed   uint32
	offset     uint32
}

func newParseCtx[T any](opts *ParseOptions, src []uint8) (*parseCtx[T], error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx[T]{
		src:    src,
		opts:   opts,
		tokens: tokens,
	}, nil
}

func (ctx *parseCtx[T]) ensureToken() error {
	if ctx.err != nil {
		return ctx.err
	}
	if ctx.haveToken {
		return nil
	}
	if err := ctx.tokens.Next(&ctx.token); err != nil {
		ctx.err = err
		return ctx.err
	}
	ctx.haveToken = true
	return nil
}

func (ctx *parseCtx[T]) readToken() []uint8 {
	return ctx.src[:ctx.token.Len]
}

func (ctx *parseCtx[T]) consumeToken(child Node) {
	ctx.src = ctx.src[ctx.token.Len:]
	ctx.consumed += uint32(ctx.token.Len)
	ctx.offset += uint32(ctx.token.Len)
	ctx.haveToken = false
	if child != nil {
		ctx.childNodes = append(ctx.childNodes, child)
	}
}

func (ctx *parseCtx[T]) tokenSpan() Span {
	return Span{
		start: ctx.offset,
		len:   uint32(ctx.token.Len),
	}
}

func (ctx *parseCtx[T]) expectedDeclaration() error {
	if err := ctx.ensureToken(); err != nil {
		return err
	}
	token := string(ctx.readToken())
	span := ctx.tokenSpan()
	if ctx.token.Kind == T_IDENT {
		return errUnknownDeclaration(token, span)
	}
	return errExpectedDeclaration(ctx.token.Kind, token, span)
}

// loop yields until the body stops consuming input or an error is recorded.
func (ctx *parseCtx[T]) loop(yield func(struct{}) bool) {
	if ctx.err != nil {
		return
	}
	for {
		consumed := ctx.consumed
		if !yield(struct{}{}) {
			return
		}
		if ctx.err != nil {
			return
		}
		if consumed == ctx.consumed {
			return
		}
	}
}

func (ctx *parseCtx[T]) space() {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != T_SPACE {
		return
	}
	ctx.consumeSpace()
}

func (ctx *parseCtx[T]) consumeSpace() {
	if !ctx.opts.saveSpaces {
		ctx.consumeToken(nil)
		return
	}

	tokenBytes := ctx.readToken()
	var token string
	if bytes.Equal(tokenBytes, []uint8{' '}) {
		token = " "
	} else {
		token = string(tokenBytes)
	}
	ctx.consumeToken(&Space{
		raw:   token,
		start: ctx.offset,
	})
}

func (ctx *parseCtx[T]) comments() {
	for range ctx.loop {
		if err := ctx.ensureToken(); err != nil {
			return
		}
		switch ctx.token.Kind {
		case T_SPACE:
			ctx.consumeSpace()
		case T_NEWLINE:
			var child Node
			if ctx.opts.saveNewlines {
				child = &Newline{
					crlf:  ctx.token.Len == 2,
					start: ctx.offset,
				}
			}
			ctx.consumeToken(child)
		case T_COMMENT:
			var child Node
			if ctx.opts.saveComments {
				child = &Comment{
					raw:   string(ctx.readToken()),
					start: ctx.offset,
				}
			}
			ctx.consumeToken(child)
		default:
			return
		}
	}
}

func (ctx *parseCtx[T]) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != kind {
		ctx.err = errExpectedSigil(
			kind,
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
		return
	}
	ctx.consumeToken(&Sigil{
		raw:   ctx.src[0],
		start: ctx.offset,
	})
}

func (ctx *parseCtx[T]) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != kind {
		return false
	}
	ctx.consumeToken(&Sigil{
		raw:   ctx.src[0],
		start: ctx.offset,
	})
	return true
}

func (ctx *parseCtx[T]) peek(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	return ctx.token.Kind == kind
}

func (ctx *parseCtx[T]) tryKeyword(keyword string) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != T_IDENT {
		return false
	}
	if string(ctx.readToken()) != keyword {
		return false
	}
	ctx.consumeToken(&Keyword{
		raw:   keyword,
		start: ctx.offset,
	})
	return true
}

func (ctx *parseCtx[T]) ident() *Ident {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedIdent(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	ident := &Ident{
		raw:   token,
		start: ctx.offset,
	}
	ctx.consumeToken(ident)
	return ident
}

func (ctx *parseCtx[T]) int() *IntLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	if !ctx.token.Kind.isIntLit() {
		ctx.err = errExpectedIntLit(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}

	intNode, err := newIntLit(token, ctx.token.Kind, ctx.offset)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(intNode)
	return intNode
}

func (ctx *parseCtx[T]) text() *TextLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	textNode, err := newTextLit(token, ctx.offset, ctx.token.flags)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(textNode)
	return textNode
}

func (ctx *parseCtx[T]) finish(
	build func(span Span, childNodes []Node) *T,
) (*T, error) {
	if ctx.err != nil {
		return nil, ctx.err
	}
	span := Span{
		start: ctx.offset - ctx.consumed,
		len:   ctx.consumed,
	}
	return build(span, ctx.childNodes), nil
}

func parseChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, bool) {
	if ctx.err != nil {
		return nil, false
	}
	childCtx := &parseCtx[C]{
		src:       ctx.src,
		opts:      ctx.opts,
		tokens:    ctx.tokens,
		haveToken: ctx.haveToken,
		token:     ctx.token,
		offset:    ctx.offset,
	}
	child, err := parseChildFn(childCtx)
	if err != nil {
		ctx.err = err
		return nil, false
	}

	ctx.haveToken = childCtx.haveToken
	ctx.token = childCtx.token

	if childCtx.consumed == 0 || child == nil {
		return nil, false
	}
	ctx.src = ctx.src[childCtx.consumed:]
	ctx.consumed += childCtx.consumed
	ctx.offset = childCtx.offset
	ctx.childNodes = append(ctx.childNodes, child)
	return child, true
}

func parseSchema(ctx *parseCtx[Schema]) (*Schema, error) {
	for range ctx.loop {
		ctx.comments()
		if ctx.err != nil {
			return nil, ctx.err
		}
		if ctx.token.Kind == T_EOF {
			break
		}

		decorators := parseDecorators(ctx)

		var ok bool
		{
			var decl *Enum
			if decl, ok = parseChild(ctx, parseEnum); ok {
				setDecorators(decl, decorators)
			}
		}
		if !ok && ctx.err == nil {
			var decl *Struct
			if decl, ok = parseChild(ctx, parseStruct); ok {
				setDecorators(decl, decorators)
			}
		}
		if ctx.err != nil {
			return nil, ctx.err
		}
		if !ok {
			if len(decorators) > 0 {
				return nil, errExpectedDecoratorTarget(
					ctx.token.Kind,
					string(ctx.readToken()),
					ctx.tokenSpan(),
				)
			}
			return nil, ctx.expectedDeclaration()
		}
	}
	if ctx.err != nil {
		return nil, ctx.err
	}

	return ctx.finish(func(span Span, childNodes []Node) *Schema {
		return &Schema{
			branchNode{span, childNodes},
		}
	})
}

func parseTypeName(ctx *parseCtx[TypeName]) (*TypeName, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	if ctx.token.Kind != T_IDENT {
		return nil, errExpectedTypeName(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}

	var scope, name *Ident
	name = ctx.ident()
	if ctx.trySigil(T_DOT) {
		scope = name
		name = ctx.ident()
	}
	return ctx.finish(func(span Span, childNodes []Node) *TypeName {
		return &TypeName{
			branchNode: branchNode{span, childNodes},
			scope:      scope,
			name:       name,
		}
	})
}

func setDecorators[T any](node *T, decorators []*Decorator) {
	type setter interface {
		setDecorators([]*Decorator)
	}
	if node != nil {
		var iface interface{} = node
		iface.(setter).setDecorators(decorators)
	}
}

func parseDecorators[T any](ctx *parseCtx[T]) []*Decorator {
	var decorators []*Decorator
	for range ctx.loop {
		if decorator, ok := parseChild(ctx, parseDecorator); ok {
			decorators = append(decorators, decorator)
			ctx.comments()
		}
	}
	return decorators
}

func parseDecorator(ctx *parseCtx[Decorator]) (*Decorator, error) {
	if !ctx.trySigil(T_AT) {
		return nil, nil
	}
	name := ctx.ident()

	var args *DecoratorArgs
	if ctx.peek(T_OPEN_PAREN) {
		args, _ = parseChild(ctx, parseDecoratorArgs)
	}

	return ctx.finish(func(span Span, childNodes []Node) *Decorator {
		return &Decorator{
			branchNode: branchNode{span, childNodes},
			name:       name,
			args:       args,
		}
	})
}

func parseDecoratorArgs(ctx *parseCtx[DecoratorArgs]) (*DecoratorArgs, error) {
	var args []Node
	ctx.sigil(T_OPEN_PAREN)
	ctx.comments()
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_PAREN) {
			break
		}
		if arg := parseDecoratorArg(ctx); arg != nil {
			args = append(args, arg)
		}
		ctx.comments()
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_PAREN)
			break
		}
		ctx.comments()
	}

	return ctx.finish(func(span Span, childNodes []Node) *DecoratorArgs {
		return &DecoratorArgs{
			branchNode: branchNode{span, childNodes},
			args:       args,
		}
	})
}

func parseDecoratorArg[T any](ctx *parseCtx[T]) Node {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch {
	case ctx.token.Kind == T_IDENT:
		if child := ctx.ident(); child != nil {
			return child
		}
	case ctx.token.Kind.isIntLit():
		if child := ctx.int(); child != nil {
			return child
		}
	case ctx.token.Kind == T_TEXT_LIT:
		if child := ctx.text(); child != nil {
			return child
		}
	default:
		ctx.err = errExpectedDecoratorArg(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
	return nil
}

func parseEnum(ctx *parseCtx[Enum]) (*Enum, error) {
	if !ctx.tryKeyword("enum") {
		return nil, nil
	}
	ctx.space()
	name := ctx.ident()
	ctx.space()

	var variants []*Variant
	ctx.sigil(T_OPEN_CURL)
	ctx.comments()
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		if variant, ok := parseChild(ctx, parseVariant); ok {
			variants = append(variants, variant)
		}
		ctx.space()
		ctx.trySigil(T_COMMA)
		ctx.comments()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Enum {
		return &Enum{
			branchNode: branchNode{span, childNodes},
			name:       name,
			variants:   variants,
		}
	})
}

func parseVariant(ctx *parseCtx[Variant]) (*Variant, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	if ctx.token.Kind != T_IDENT {
		return nil, errExpectedVariant(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
	name := ctx.ident()
	ctx.space()

	fields := parseFields(ctx)
	if fields != nil {
		ctx.space()
	}

	var value *IntLit
	if ctx.trySigil(T_EQ) {
		ctx.space()
		value = ctx.int()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Variant {
		return &Variant{
			branchNode: branchNode{span, childNodes},
			name:       name,
			fields:     fields,
			value:      value,
		}
	})
}

func parseStruct(ctx *parseCtx[Struct]) (*Struct, error) {
	if !ctx.tryKeyword("struct") {
		return nil, nil
	}
	ctx.space()
	name := ctx.ident()
	ctx.space()
	fields := parseFields(ctx)

	return ctx.finish(func(span Span, childNodes []Node) *Struct {
		return &Struct{
			branchNode: branchNode{span, childNodes},
			name:       name,
			fields:     fields,
		}
	})
}

func parseFields[T any](ctx *parseCtx[T]) *Fields {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch ctx.token.Kind {
	case T_OPEN_CURL:
		fields, _ := parseChild(ctx, parseNamedFields)
		return fields
	case T_OPEN_PAREN:
		fields, _ := parseChild(ctx, parseTupleFields)
		return fields
	}
	return nil
}

func parseNamedFields(ctx *parseCtx[Fields]) (*Fields, error) {
	var fields []*Field
	ctx.sigil(T_OPEN_CURL)
	ctx.comments()
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		if field, ok := parseChild(ctx, parseNamedField); ok {
			fields = append(fields, field)
		}
		ctx.space()
		ctx.trySigil(T_COMMA)
		ctx.comments()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Fields {
		return &Fields{
			branchNode: branchNode{span, childNodes},
			fields:     fields,
		}
	})
}

func parseNamedField(ctx *parseCtx[Field]) (*Field, error) {
	name := ctx.ident()
	ctx.space()
	ctx.sigil(T_COLON)
	ctx.space()
	fieldType, _ := parseChild(ctx, parseTypeName)

	return ctx.finish(func(span Span, childNodes []Node) *Field {
		return &Field{
			branchNode: branchNode{span, childNodes},
			name:       name,
			fieldType:  fieldType,
		}
	})
}

func parseTupleFields(ctx *parseCtx[Fields]) (*Fields, error) {
	var fields []*Field
	ctx.sigil(T_OPEN_PAREN)
	ctx.comments()
	for range ctx.loop {
		if ctx.trySigil(T_CLOSE_PAREN) {
			break
		}
		if field, ok := parseChild(ctx, parseTupleField); ok {
			fields = append(fields, field)
		}
		ctx.comments()
		if !ctx.trySigil(T_COMMA) {
			ctx.sigil(T_CLOSE_PAREN)
			break
		}
		ctx.comments()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Fields {
		return &Fields{
			branchNode: branchNode{span, childNodes},
			positional: true,
			fields:     fields,
		}
	})
}

func parseTupleField(ctx *parseCtx[Field]) (*Field, error) {
	fieldType, _ := parseChild(ctx, parseTypeName)

	return ctx.finish(func(span Span, childNodes []Node) *Field {
		return &Field{
			branchNode: branchNode{span, childNodes},
			fieldType:  fieldType,
		}
	})
}
