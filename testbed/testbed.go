// Package testbed is a small two-state game used to exercise the engine.
package testbed

import (
	"github.com/spaghettifunk/daw/engine"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/testbed/gameplay"
	"github.com/spaghettifunk/daw/testbed/states"
	"github.com/spaghettifunk/daw/testbed/title"
)

// Static returns the symbols of every state for builds without hot reload.
func Static() map[string]dl.Symbols {
	return map[string]dl.Symbols{
		"title":    title.Symbols(),
		"gameplay": gameplay.Symbols(),
	}
}

// NewGame describes the testbed for the engine.
func NewGame(cfg *engine.ApplicationConfig) *engine.Game {
	return &engine.Game{
		ApplicationConfig: cfg,
		States:            states.Declarations,
		Initial:           states.Title,
		Static:            Static(),
	}
}
