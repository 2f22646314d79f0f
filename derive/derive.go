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
	"github.com/burrbull/bitbag/syntax"
)

const (
	DeriveBitBaggable = "BitBaggable"
	DeriveBitOr       = "BitOr"

	attrRepr   = "repr"
	attrDerive = "derive"

	DefaultRuntimePackage = "bitbag"
)

type Option interface {
	apply(*Options)
}

type deriveOption func(*Options)

func (f deriveOption) apply(opts *Options) { f(opts) }

type Options struct {
	sourcePath []string
	runtime    string
}

func WithSourcePath(sourcePath []string) Option {
	return deriveOption(func(opts *Options) {
		opts.sourcePath = sourcePath
	})
}

// WithRuntimePackage sets the identifier that qualifies references to the
// runtime package in generated code.
func WithRuntimePackage(name string) Option {
	return deriveOption(func(opts *Options) {
		opts.runtime = name
	})
}

func NewOptions(opts ...Option) *Options {
	deriveOpts := &Options{
		runtime: DefaultRuntimePackage,
	}
	for _, opt := range opts {
		opt.apply(deriveOpts)
	}
	return deriveOpts
}

type Result struct {
	SourcePath     []string
	RuntimePackage string

	Decls []*Decl
	// Units is empty whenever Errors is not.
	Units map[*Decl][]*Unit

	Errors   []*Error
	Warnings []*Warning
}

// DeclUnits returns the units generated for decl, in the order their
// derives were written.
func (r *Result) DeclUnits(decl *Decl) []*Unit {
	return r.Units[decl]
}

// ExpandBitBaggable validates decl and generates its BitBaggable
// implementation.
func ExpandBitBaggable(decl *Decl) (*Unit, *Error) {
	e := expander{runtime: DefaultRuntimePackage}
	return e.bitBaggable(decl)
}

// ExpandBitOr generates the Or operators for the named type. It needs
// nothing but the name and cannot fail.
func ExpandBitOr(name string) *Unit {
	e := expander{runtime: DefaultRuntimePackage}
	return e.expandBitOr(name)
}

func (e *expander) bitBaggable(decl *Decl) (*Unit, *Error) {
	valid, err := ExtractEnumAndRepr(decl)
	if err != nil {
		return nil, err
	}
	return e.expandBitBaggable(valid), nil
}

func Derive(schema *syntax.Schema, opts ...Option) Result {
	return NewOptions(opts...).Derive(schema)
}

func (opts *Options) Derive(schema *syntax.Schema) Result {
	d := deriver{
		expander: expander{runtime: opts.runtime},
		units:    make(map[*Decl][]*Unit),
	}
	decls := Lower(schema)
	for _, decl := range decls {
		d.deriveDecl(decl)
	}

	result := Result{
		SourcePath:     opts.sourcePath,
		RuntimePackage: opts.runtime,
		Decls:          decls,
		Errors:         d.errors,
		Warnings:       d.warnings,
	}
	if len(d.errors) == 0 {
		result.Units = d.units
	}
	return result
}

type deriver struct {
	expander
	units    map[*Decl][]*Unit
	errors   []*Error
	warnings []*Warning
}

func (d *deriver) err(err *Error) {
	d.errors = append(d.errors, err)
}

func (d *deriver) warn(warning *Warning) {
	d.warnings = append(d.warnings, warning)
}

func (d *deriver) deriveDecl(decl *Decl) {
	var derives []*AttrArg
	seen := make(map[string]bool)
	hasRepr := false
	for _, attr := range decl.Attrs {
		switch attr.Name {
		case attrRepr:
			hasRepr = true
		case attrDerive:
			for _, arg := range d.deriveArgs(attr) {
				if seen[arg.Text] {
					d.warn(warnDuplicateDerive(arg.Text, arg.Span))
					continue
				}
				seen[arg.Text] = true
				derives = append(derives, arg)
			}
		default:
			d.warn(warnUnknownDecorator(attr.Name, attr.NameSpan))
		}
	}

	if decl.Kind == DeclStruct && hasRepr && !seen[DeriveBitBaggable] {
		d.warn(warnReprWithoutCapability(decl.Name, decl.NameSpan))
	}
	if decl.Kind == DeclEnum && !seen[DeriveBitBaggable] {
		if err := checkDiscriminants(decl, StorageRepr(decl)); err != nil {
			d.err(err)
		}
	}

	for _, arg := range derives {
		switch arg.Text {
		case DeriveBitBaggable:
			unit, err := d.bitBaggable(decl)
			if err != nil {
				d.err(err)
				continue
			}
			d.units[decl] = append(d.units[decl], unit)
		case DeriveBitOr:
			if !seen[DeriveBitBaggable] {
				d.warn(warnOperatorWithoutCapability(decl.Name, arg.Span))
			}
			d.units[decl] = append(d.units[decl], d.expandBitOr(decl.Name))
		default:
			d.warn(warnUnknownDerive(arg.Text, arg.Span))
		}
	}
}

func (d *deriver) deriveArgs(attr *Attr) []*AttrArg {
	if !attr.HasParens {
		d.err(errMalformedDerive("missing argument list", attr.Span))
		return nil
	}
	args := make([]*AttrArg, 0, len(attr.Args))
	for _, arg := range attr.Args {
		if arg.Kind != ArgIdent {
			d.err(errMalformedDerive("expected identifier, got "+arg.Kind.String(), arg.Span))
			continue
		}
		args = append(args, arg)
	}
	return args
}
