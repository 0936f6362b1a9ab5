//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"

	"github.com/spaghettifunk/daw/engine/hotreload"
	"github.com/spaghettifunk/daw/testbed/states"
)

type Build mg.Namespace

const (
	statesDir = "build/states"
)

// Regenerates the state declarations from testbed/states/states.toml.
func (Build) Generate() error {
	if _, err := executeCmd("go", withArgs("generate", "./testbed/..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the daw binary into build/.
func (Build) Engine() error {
	mg.SerialDeps(Tidy, Build.Generate)
	if _, err := executeCmd("go", withArgs("build", "-o", "build/daw", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds every declared state into build/states/lib<state>.so.
func (Build) States() error {
	mg.Deps(Build.Generate)
	for _, d := range states.Declarations {
		if err := buildState(d.Name); err != nil {
			return err
		}
	}
	return nil
}

// Rebuilds a single state, e.g. `mage build:state gameplay`. A running
// `daw run --hot-reload` picks the new module up.
func (Build) State(name string) error {
	return buildState(name)
}

func buildState(name string) error {
	root, err := hotreload.ModuleRoot(".")
	if err != nil {
		return err
	}
	fmt.Printf("Building state %s...\n", name)
	_, err = hotreload.Build(root, hotreload.Module{
		Name:   name,
		Source: filepath.Join("testbed", name),
		Out:    statesDir,
	})
	return err
}
