//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with its states compiled in.
func (Run) Engine() error {
	mg.Deps(Build.Generate)
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "run"), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the state modules and runs the testbed with hot reload on.
func (Run) HotReload() error {
	mg.Deps(Build.States)
	fmt.Println("Run engine with hot reload...")
	if _, err := executeCmd("go", withArgs("run", ".", "run", "--hot-reload"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the test suite.
func Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
