package input

import (
	"errors"
	"fmt"
)

// Callback is the signature of every bound function: the frame delta time and
// the active state's private memory.
type Callback func(dt float64, mem []byte)

// NullName marks a binding that is intentionally left without a function.
// Refresh skips it instead of failing.
const NullName = "NULL"

// ErrUnresolved is reported when a binding fires before its function was
// resolved.
var ErrUnresolved = errors.New("binding not resolved")

// Kind tags the variants of Action.
type Kind uint8

const (
	KindError Kind = iota
	KindAction
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindAction:
		return "action"
	case KindState:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Action is what a binding does. It is a closed sum type: NoAction, Trigger
// or Toggle. Callers must switch over all three.
type Action interface {
	Kind() Kind
	action()
}

// NoAction is returned by lookups that hit no binding.
type NoAction struct{}

func (NoAction) Kind() Kind { return KindError }
func (NoAction) action()    {}

// Trigger fires Fn once per key press.
type Trigger struct {
	Name string
	Fn   Callback
}

func (Trigger) Kind() Kind { return KindAction }
func (Trigger) action()    {}

// Resolved reports whether Fn is usable.
func (t Trigger) Resolved() bool {
	return t.Fn != nil
}

// Toggle fires Activate on press and Deactivate on release.
type Toggle struct {
	ActivateName   string
	DeactivateName string
	Activate       Callback
	Deactivate     Callback
}

func (Toggle) Kind() Kind { return KindState }
func (Toggle) action()    {}

func (t Toggle) Resolved() bool {
	return t.Activate != nil && t.Deactivate != nil
}

// SameAction compares two actions by identity: their kind and callback names.
// Function values are not compared; the names are the identity.
func SameAction(a, b Action) bool {
	switch x := a.(type) {
	case NoAction:
		return false
	case Trigger:
		y, ok := b.(Trigger)
		return ok && x.Name == y.Name
	case Toggle:
		y, ok := b.(Toggle)
		return ok && x.ActivateName == y.ActivateName && x.DeactivateName == y.DeactivateName
	default:
		return false
	}
}

// lazy strips the functions from a, keeping the names.
func lazy(a Action) Action {
	switch x := a.(type) {
	case Trigger:
		return Trigger{Name: x.Name}
	case Toggle:
		return Toggle{ActivateName: x.ActivateName, DeactivateName: x.DeactivateName}
	default:
		return a
	}
}
