//go:build mage

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

// The glfw and vulkan bindings need cgo.
var cgoEnv = []string{"CGO_ENABLED=1"}

type goRun struct {
	env     []string
	dir     string
	capture bool
}

type goRunOption func(*goRun)

func withEnv(env ...string) goRunOption {
	return func(r *goRun) {
		r.env = append(r.env, env...)
	}
}

func inDir(dir string) goRunOption {
	return func(r *goRun) {
		r.dir = dir
	}
}

// captured keeps the output quiet unless the command fails or mage runs verbose.
func captured() goRunOption {
	return func(r *goRun) {
		r.capture = true
	}
}

// goTool runs a go subcommand with the toolchain mage itself was built with.
func goTool(args []string, options ...goRunOption) (string, error) {
	r := &goRun{}
	for _, o := range options {
		o(r)
	}

	gocmd := mg.GoCmd()
	fmt.Printf("%s %s\n", gocmd, strings.Join(args, " "))
	cmd := exec.Command(gocmd, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), r.env...)

	var out bytes.Buffer
	if r.capture && !mg.Verbose() {
		cmd.Stdout, cmd.Stderr = &out, &out
	} else {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	}
	if err := cmd.Run(); err != nil {
		if out.Len() > 0 {
			os.Stderr.Write(out.Bytes())
		}
		return "", fmt.Errorf("%s %s: %w", gocmd, args[0], err)
	}
	return out.String(), nil
}
