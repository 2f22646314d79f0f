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
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"

	"github.com/burrbull/bitbag/codegen"
	"github.com/burrbull/bitbag/internal/config"
)

type cmdCodegen struct {
	common     commonFlags
	outDir     string
	pluginPath string
	language   string
	builtin    bool
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen [options] FILE.bitbag",
		summary: "Generate code with a WebAssembly codegen plugin",
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	cmd.common.register(flags)
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "directories searched for bitbag-codegen-LANG.wasm")
	flags.StringVar(&cmd.language, "lang", "go", "target language of the plugin")
	flags.BoolVar(&cmd.builtin, "builtin", false, "use the built-in Go generator instead of a plugin")
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(os.Stderr, "usage: bitbag codegen [options] FILE.bitbag")
		return 1
	}

	s, err := cmd.common.resolve(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	outDir := cmd.outDir
	if outDir == "" {
		outDir = s.cfg.OutputDir()
	}
	if outDir == "" {
		fmt.Fprintln(os.Stderr, "No output directory specified (set --output=)")
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

	schema, err := s.schema(results[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	request := &codegen.Request{
		Schema: schema,
		Options: map[string]string{
			codegen.OptionPackage:       s.pkg,
			codegen.OptionRuntimeImport: s.runtimeImport,
		},
	}

	var response *codegen.Response
	if cmd.builtin {
		if cmd.language != "go" {
			fmt.Fprintf(os.Stderr, "The built-in generator only supports Go, not %q\n", cmd.language)
			return 1
		}
		response = codegen.Generate(request)
	} else {
		pluginPath, err := cmd.locatePlugin(s.cfg, cmd.language)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		response, err = runPlugin(ctx, pluginPath, request)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if response.Error != "" {
		fmt.Fprintf(os.Stderr, "%s\n", strings.TrimRight(response.Error, "\n"))
		return 1
	}
	if len(response.Files) == 0 {
		fmt.Fprintln(os.Stderr, "Plugin did not generate any output files")
		return 1
	}
	for _, outputFile := range response.Files {
		outPath, err := outPath(outDir, outputFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := writeOutput(outPath, outputFile.Content); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

func runPlugin(ctx context.Context, pluginPath string, request *codegen.Request) (*codegen.Response, error) {
	requestBuf, err := codegen.EncodeRequest(request)
	if err != nil {
		return nil, err
	}

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		return nil, err
	}
	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, fmt.Errorf("compile plugin %s: %w", pluginPath, err)
	}
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, wasm.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiate plugin %s: %w", pluginPath, err)
	}
	mem := plugin.Memory()

	wasmAlloc := plugin.ExportedFunction("bitbag_codegen_allocate")
	wasmGenerate := plugin.ExportedFunction("bitbag_codegen_generate")
	if mem == nil || wasmAlloc == nil || wasmGenerate == nil {
		return nil, fmt.Errorf("plugin %s does not export the bitbag codegen ABI", pluginPath)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := results[0]
	if !mem.Write(uint32(requestPtr), requestBuf) {
		return nil, fmt.Errorf("failed to write request to plugin memory")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx, requestPtr, uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr, responseLen)
	if !ok {
		return nil, fmt.Errorf("failed to read response message")
	}
	response, err := codegen.DecodeResponse(responseBuf)
	if err != nil {
		return nil, err
	}
	if rc != 0 && response.Error == "" {
		response.Error = fmt.Sprintf("plugin %s failed with status %d", pluginPath, rc)
	}
	return response, nil
}

func (cmd *cmdCodegen) locatePlugin(cfg *config.Config, language string) (string, error) {
	dirs := filepath.SplitList(cmd.pluginPath)
	if cmd.pluginPath == "" {
		dirs = cfg.PluginDirs()
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", config.EnvPluginPath)
	}
	basename := fmt.Sprintf("bitbag-codegen-%s.wasm", language)
	for _, dir := range dirs {
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("bitbag codegen plugin %s not found in plugin path", basename)
}

func outPath(outDir string, file codegen.OutputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.Contains(part, "/") {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains '/'", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}
