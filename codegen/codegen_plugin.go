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

package codegen

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Request is sent to a codegen plugin. On the wire every message is a
// little-endian uint32 holding the total message length (including the
// prefix itself) followed by a msgpack payload.
type Request struct {
	Schema  *Schema           `msgpack:"schema"`
	Options map[string]string `msgpack:"options,omitempty"`
}

type Response struct {
	Files []OutputFile `msgpack:"files,omitempty"`
	Error string       `msgpack:"error,omitempty"`
}

type OutputFile struct {
	Path    []string `msgpack:"path"`
	Content []byte   `msgpack:"content"`
}

// Plugin options understood by the built-in Go backend.
const (
	OptionPackage       = "package"
	OptionRuntimeImport = "runtime_import"
)

const framePrefixLen = 4

func EncodeRequest(req *Request) ([]byte, error) {
	return encodeFrame(req)
}

func DecodeRequest(buf []byte) (*Request, error) {
	req := &Request{}
	if err := decodeFrame(buf, req); err != nil {
		return nil, fmt.Errorf("decode codegen request: %w", err)
	}
	if req.Schema == nil {
		return nil, fmt.Errorf("decode codegen request: missing schema")
	}
	return req, nil
}

func EncodeResponse(resp *Response) ([]byte, error) {
	return encodeFrame(resp)
}

func DecodeResponse(buf []byte) (*Response, error) {
	resp := &Response{}
	if err := decodeFrame(buf, resp); err != nil {
		return nil, fmt.Errorf("decode codegen response: %w", err)
	}
	return resp, nil
}

// FrameLen reads the length prefix of an encoded message.
func FrameLen(buf []byte) (uint32, bool) {
	if len(buf) < framePrefixLen {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf), true
}

func encodeFrame(v any) ([]byte, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	frameLen, err := safecast.Conv[uint32](framePrefixLen + len(payload))
	if err != nil {
		return nil, fmt.Errorf("message size (%d bytes) exceeds maximum", len(payload))
	}
	buf := make([]byte, framePrefixLen, int(frameLen))
	binary.LittleEndian.PutUint32(buf, frameLen)
	return append(buf, payload...), nil
}

func decodeFrame(buf []byte, v any) error {
	frameLen, ok := FrameLen(buf)
	if !ok {
		return fmt.Errorf("message truncated (%d bytes)", len(buf))
	}
	if frameLen < framePrefixLen || uint64(frameLen) > uint64(len(buf)) {
		return fmt.Errorf("invalid message length %d (buffer has %d bytes)", frameLen, len(buf))
	}
	return msgpack.Unmarshal(buf[framePrefixLen:frameLen], v)
}

// Generate runs the built-in Go backend. Failures are reported in
// Response.Error.
func Generate(req *Request) *Response {
	schema := *req.Schema
	if pkg := req.Options[OptionPackage]; pkg != "" {
		schema.Package = pkg
	}
	if runtimeImport := req.Options[OptionRuntimeImport]; runtimeImport != "" {
		schema.RuntimeImport = runtimeImport
	}
	content, err := GenerateGo(&schema)
	if err != nil {
		return &Response{Error: err.Error()}
	}
	return &Response{
		Files: []OutputFile{{
			Path:    OutputPath(&schema),
			Content: content,
		}},
	}
}
