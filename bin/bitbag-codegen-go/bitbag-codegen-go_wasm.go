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

package main

import (
	"math"
	"unsafe"

	"github.com/burrbull/bitbag/codegen"
)

var buffers = make(map[*uint8][]uint8)

//go:export bitbag_codegen_allocate
func bitbagCodegenAllocate(len uint32) *uint8 {
	if len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export bitbag_codegen_deallocate
func bitbagCodegenDeallocate(ptr *uint8) {
	delete(buffers, ptr)
}

//go:export bitbag_codegen_generate
func bitbagCodegenGenerate(requestPtr *uint8, responsePtrPtr **uint8) uint8 {
	requestLen, _ := codegen.FrameLen(unsafe.Slice(requestPtr, 4))
	requestBuf := unsafe.Slice(requestPtr, requestLen)

	var response *codegen.Response
	request, err := codegen.DecodeRequest(requestBuf)
	if err != nil {
		response = &codegen.Response{Error: err.Error()}
	} else {
		response = codegen.Generate(request)
	}
	return writeResponse(response, responsePtrPtr)
}

func writeResponse(response *codegen.Response, responsePtrPtr **uint8) uint8 {
	responseBuf, err := codegen.EncodeResponse(response)
	if err != nil {
		responseBuf, _ = codegen.EncodeResponse(&codegen.Response{
			Error: "EncodeResponse: " + err.Error(),
		})
		response.Error = err.Error()
	}
	responsePtr := unsafe.SliceData(responseBuf)
	buffers[responsePtr] = responseBuf
	*responsePtrPtr = responsePtr
	if response.Error != "" {
		return 1
	}
	return 0
}
