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
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

type cmdCheck struct {
	common commonFlags
	strict bool
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check [options] FILE.bitbag...",
		summary: "Report errors and warnings without generating code",
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	cmd.common.register(flags)
	flags.BoolVar(&cmd.strict, "strict", false, "treat warnings as errors")
}

func (cmd *cmdCheck) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: bitbag check [options] FILE.bitbag...")
		return 1
	}

	s, err := cmd.common.resolve(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	results, err := s.compileAll(ctx, argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	failed, err := s.report(os.Stderr, os.Stderr.Fd(), results)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if failed {
		return 1
	}
	if cmd.strict {
		for _, c := range results {
			if len(c.result.Warnings) > 0 {
				return 1
			}
		}
	}
	return 0
}
