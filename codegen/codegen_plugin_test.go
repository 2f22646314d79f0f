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

package codegen_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/burrbull/bitbag/codegen"
	"github.com/burrbull/bitbag/derive"
	"github.com/burrbull/bitbag/internal/testutil"
)

const pluginSrc = `
@repr(u8)
@derive(BitBaggable, BitOr)
enum Perm { Read = 1, Write = 2 }
`

func pluginRequest(t *testing.T) *codegen.Request {
	t.Helper()
	result := deriveSchema(t, pluginSrc, derive.WithSourcePath([]string{"schemas", "perm.bitbag"}))
	schema, err := codegen.NewSchema(result, codegen.Options{Package: "perm"})
	testutil.AssertNoError(t, err)
	return &codegen.Request{
		Schema:  schema,
		Options: map[string]string{codegen.OptionPackage: "access"},
	}
}

func TestRequestWire(t *testing.T) {
	req := pluginRequest(t)
	buf, err := codegen.EncodeRequest(req)
	testutil.AssertNoError(t, err)

	frameLen, ok := codegen.FrameLen(buf)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, uint32(len(buf)), frameLen)

	decoded, err := codegen.DecodeRequest(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, req, decoded, cmpopts.EquateEmpty())
}

func TestDecodeInvalidFrames(t *testing.T) {
	_, err := codegen.DecodeRequest([]byte{1, 2})
	testutil.AssertError(t, err)

	var tooLong [8]byte
	binary.LittleEndian.PutUint32(tooLong[:], 64)
	_, err = codegen.DecodeResponse(tooLong[:])
	testutil.AssertError(t, err)

	// A well-formed frame without a schema.
	buf, err := codegen.EncodeRequest(&codegen.Request{})
	testutil.AssertNoError(t, err)
	_, err = codegen.DecodeRequest(buf)
	testutil.AssertError(t, err)
}

func TestGenerate(t *testing.T) {
	resp := codegen.Generate(pluginRequest(t))
	testutil.ExpectEq(t, "", resp.Error)
	if len(resp.Files) != 1 {
		t.Fatalf("expected 1 output file, got %d", len(resp.Files))
	}
	file := resp.Files[0]
	testutil.ExpectSliceEq(t, []string{"perm_bitbag.go"}, file.Path)
	testutil.ExpectTrue(t, bytes.HasPrefix(file.Content, []byte("// Code generated by bitbag. DO NOT EDIT.\n")))
	testutil.ExpectContains(t, "// source: schemas/perm.bitbag\n", string(file.Content))
	testutil.ExpectContains(t, "\npackage access\n", string(file.Content))

	buf, err := codegen.EncodeResponse(resp)
	testutil.AssertNoError(t, err)
	decoded, err := codegen.DecodeResponse(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, resp, decoded, cmpopts.EquateEmpty())
}

func TestGenerateError(t *testing.T) {
	req := pluginRequest(t)
	req.Schema.Package = ""
	req.Options = nil
	resp := codegen.Generate(req)
	testutil.ExpectEq(t, 0, len(resp.Files))
	testutil.ExpectContains(t, "no Go package name set", resp.Error)
}

func TestOutputPath(t *testing.T) {
	testutil.ExpectSliceEq(t, []string{"flags_bitbag.go"}, codegen.OutputPath(&codegen.Schema{
		Package:    "p",
		SourcePath: []string{"a", "flags.bitbag"},
	}))
	testutil.ExpectSliceEq(t, []string{"p.go"}, codegen.OutputPath(&codegen.Schema{
		Package: "p",
	}))
}
