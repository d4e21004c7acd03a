//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles every package.
func (Build) All() error {
	_, err := goTool([]string{"build", "./..."}, withEnv(cgoEnv...))
	return err
}

// Runs the unit tests under the race detector.
func (Build) Test() error {
	_, err := goTool([]string{"test", "-race", "./..."}, withEnv(cgoEnv...))
	return err
}

// Runs go vet over the module.
func (Build) Vet() error {
	_, err := goTool([]string{"vet", "./..."}, withEnv(cgoEnv...))
	return err
}

// Runs go mod tidy.
func (Build) Tidy() error {
	_, err := goTool([]string{"mod", "tidy"}, captured())
	return err
}
