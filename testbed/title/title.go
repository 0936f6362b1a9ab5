// Package title is the title screen: Enter starts the game, Escape quits.
package title

import (
	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/memory"
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
	"github.com/spaghettifunk/daw/testbed/states"
)

type data struct {
	Elapsed  float64
	Level    int32
	Start    bool
	QuitGame bool
}

// Size is the private memory the title screen needs.
var Size = uintptr(memory.SizeOf[data]())

func Init(p *platform.Platform, mem []byte, arg any) {
	d := memory.As[data](mem)
	d.Level = 1
	p.Input.Push(input.NewContext("title",
		input.BindAction(input.KeyEnter, input.KeySpace, "TitleStart", Start),
		input.BindAction(input.KeyEscape, input.NoKey, "TitleQuit", Quit),
		input.BindAction(input.KeyUp, input.KeyW, "TitleNextLevel", NextLevel),
	))
	core.LogInfo("title: press enter to start, escape to quit")
}

func Update(p *platform.Platform, dt float64, mem []byte) state.Type {
	d := memory.As[data](mem)
	d.Elapsed += dt
	switch {
	case d.QuitGame:
		return state.Quit
	case d.Start:
		return states.Gameplay
	default:
		return state.Null
	}
}

func Free(p *platform.Platform, mem []byte) any {
	d := memory.As[data](mem)
	return states.Handoff{TitleTime: d.Elapsed, Level: int(d.Level)}
}

func Start(dt float64, mem []byte) {
	memory.As[data](mem).Start = true
}

func Quit(dt float64, mem []byte) {
	memory.As[data](mem).QuitGame = true
}

func NextLevel(dt float64, mem []byte) {
	d := memory.As[data](mem)
	d.Level = d.Level%9 + 1
	core.LogInfo("title: level %d selected", d.Level)
}

// Symbols returns the module symbols of the title screen.
func Symbols() dl.Symbols {
	return dl.Symbols{
		"TitleInit":      TitleInit,
		"TitleUpdate":    TitleUpdate,
		"TitleFree":      TitleFree,
		"TitleSize":      &TitleSize,
		"TitleStart":     TitleStart,
		"TitleQuit":      TitleQuit,
		"TitleNextLevel": TitleNextLevel,
	}
}

