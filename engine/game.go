package engine

import (
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/state"
)

// Game describes what the engine runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	// States lists the declared states, numbered from state.First.
	States []state.Declaration
	// Initial is the state started by Initialize and InitialArg is handed to
	// its init function.
	Initial    state.Type
	InitialArg any
	// Static holds the symbols of every state module keyed by state name. It
	// is used when hot reload is off.
	Static map[string]dl.Symbols
}
