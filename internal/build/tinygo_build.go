package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
)

var (
	tinygo   = pflag.String("tinygo", "tinygo", "path to the tinygo binary, relative to the working directory")
	output   = pflag.String("output", "bitbag-codegen-go.wasm", "path of the built plugin")
	chdir    = pflag.String("chdir", "", "directory tinygo runs in")
	target   = pflag.String("target", "wasm-unknown", "tinygo target")
	pkg      = pflag.String("package", "./bin/bitbag-codegen-go", "plugin package to build")
	goSdkBin = pflag.String("go-sdk-bin", "", "directory holding the go binary")
	wasmOpt  = pflag.String("wasm-opt", "", "path to wasm-opt")
)

func main() {
	pflag.Parse()
	pwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	tinygoArgs := []string{"build"}
	tinygoArgs = append(tinygoArgs, "-o="+filepath.Join(pwd, *output))
	tinygoArgs = append(tinygoArgs, "-target="+*target)
	tinygoArgs = append(tinygoArgs, pflag.Args()...)
	tinygoArgs = append(tinygoArgs, *pkg)

	tinygoPath := *tinygo
	if filepath.Base(tinygoPath) != tinygoPath {
		tinygoPath = filepath.Join(pwd, tinygoPath)
	}
	cmd := exec.Command(tinygoPath, tinygoArgs...)
	cmd.Env = os.Environ()
	if *goSdkBin != "" {
		cmd.Env = append(cmd.Env, "PATH="+filepath.Join(pwd, *goSdkBin))
	}
	if *wasmOpt != "" {
		cmd.Env = append(cmd.Env, "WASMOPT="+filepath.Join(pwd, *wasmOpt))
	}
	cmd.Dir = filepath.Join(pwd, *chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
