// Package state holds the table of game states and dispatches their lifecycle
// functions. States are declared once, in order; each declared state is bound
// to an init, update and free function either directly or by loading its
// module and resolving the functions by name.
package state

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/daw/engine/platform"
)

// Type identifies a state. Declared states are numbered from First.
type Type uint16

const (
	// Null keeps the current state running when returned from an update.
	Null Type = 0
	// First is the Type of the first declared state.
	First Type = 1
	// Quit ends the run loop.
	Quit Type = 0xFFFF
)

var (
	ErrUnknownState = errors.New("unknown state")
	ErrUnbound      = errors.New("state function not bound")
	ErrDeclaration  = errors.New("invalid state declaration")
)

// InitFunc receives the platform, the state's private memory and the value the
// previous state's FreeFunc returned.
type InitFunc = func(p *platform.Platform, mem []byte, arg any)

// UpdateFunc advances the state by dt seconds and returns the next state, or
// Null to keep running.
type UpdateFunc = func(p *platform.Platform, dt float64, mem []byte) Type

// FreeFunc tears the state down. Its result is handed to the next InitFunc.
type FreeFunc = func(p *platform.Platform, mem []byte) any

// Declaration pairs a Type with its declared name.
type Declaration struct {
	Type Type
	Name string
}

// Entry is the set of functions bound to a state. Size is the number of arena
// bytes handed to Init.
type Entry struct {
	Init   InitFunc
	Update UpdateFunc
	Free   FreeFunc
	Size   uintptr
}

func (e Entry) bound() bool {
	return e.Init != nil && e.Update != nil && e.Free != nil
}

func (e Entry) validate() error {
	var missing []string
	if e.Init == nil {
		missing = append(missing, "init")
	}
	if e.Update == nil {
		missing = append(missing, "update")
	}
	if e.Free == nil {
		missing = append(missing, "free")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrUnbound, missing)
	}
	return nil
}
