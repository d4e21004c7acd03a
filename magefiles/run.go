//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

const defaultConfig = "xnagfx.toml"

// Runs the testbed with xnagfx.toml when present, reloading it on change.
func (Run) Testbed() error {
	args := []string{"run", "main.go"}
	if _, err := os.Stat(defaultConfig); err == nil {
		args = append(args, "-config", defaultConfig, "-watch")
	}
	fmt.Println("Run testbed...")
	_, err := goTool(args, withEnv(cgoEnv...))
	return err
}

// Vets the module, then runs the graphics and renderer tests with the race detector.
func (Run) GraphicsTests() error {
	mg.Deps(Build.Vet)
	_, err := goTool([]string{"test", "-race", "./engine/graphics/...", "./engine/renderer/..."}, withEnv(cgoEnv...), inDir("."))
	return err
}
