// Package gameplay moves a player left and right and zooms the camera with the
// mouse wheel. Escape goes back to the title screen and Q quits.
package gameplay

import (
	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/math"
	"github.com/spaghettifunk/daw/engine/memory"
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
	"github.com/spaghettifunk/daw/testbed/states"
)

// Speed is how far the player moves per second.
const Speed = 4.0

const (
	// ZoomStep is the camera distance covered by one wheel notch.
	ZoomStep = 0.5
	MaxZoom  = 8.0
)

type data struct {
	Player   math.Vec2
	Dir      float32
	Zoom     float32
	Level    int32
	Back     bool
	QuitGame bool
}

var Size = uintptr(memory.SizeOf[data]())

func Init(p *platform.Platform, mem []byte, arg any) {
	d := memory.As[data](mem)
	d.Level = 1
	if h, ok := arg.(states.Handoff); ok {
		d.Level = int32(h.Level)
		core.LogInfo("gameplay: level %d after %.1fs on the title screen", h.Level, h.TitleTime)
	}
	p.Input.Push(input.NewContext("gameplay",
		input.BindState(input.KeyLeft, input.KeyA, "GameplayLeftOn", "GameplayLeftOff", LeftOn, LeftOff),
		input.BindState(input.KeyRight, input.KeyD, "GameplayRightOn", "GameplayRightOff", RightOn, RightOff),
		input.BindAction(input.KeyEscape, input.NoKey, "GameplayBack", Back),
		input.BindAction(input.KeyQ, input.NoKey, "GameplayQuit", Quit),
		input.BindActionLazy(input.KeySpace, input.NoKey, input.NullName),
	))
}

func Update(p *platform.Platform, dt float64, mem []byte) state.Type {
	d := memory.As[data](mem)
	switch {
	case d.QuitGame:
		return state.Quit
	case d.Back:
		return states.Title
	}
	d.Player = d.Player.Add(math.NewVec2(d.Dir, 0).MulScalar(float32(Speed * dt)))
	d.Zoom = math.Clamp(d.Zoom-float32(p.Keyboard.Scroll()*ZoomStep), -MaxZoom, MaxZoom)
	p.Camera.SetPosition(math.NewVec3(platform.DefaultCameraPosition.X+d.Player.X, d.Player.Y, platform.DefaultCameraPosition.Z+d.Zoom))
	return state.Null
}

func Free(p *platform.Platform, mem []byte) any {
	d := memory.As[data](mem)
	core.LogInfo("gameplay: player stopped at %.2f", d.Player.X)
	return nil
}

func LeftOn(dt float64, mem []byte)   { memory.As[data](mem).Dir -= 1 }
func LeftOff(dt float64, mem []byte)  { memory.As[data](mem).Dir += 1 }
func RightOn(dt float64, mem []byte)  { memory.As[data](mem).Dir += 1 }
func RightOff(dt float64, mem []byte) { memory.As[data](mem).Dir -= 1 }
func Back(dt float64, mem []byte)     { memory.As[data](mem).Back = true }
func Quit(dt float64, mem []byte)     { memory.As[data](mem).QuitGame = true }

// Position returns the player position stored in mem.
func Position(mem []byte) math.Vec2 {
	return memory.As[data](mem).Player
}

func Symbols() dl.Symbols {
	return dl.Symbols{
		"GameplayInit":     GameplayInit,
		"GameplayUpdate":   GameplayUpdate,
		"GameplayFree":     GameplayFree,
		"GameplaySize":     &GameplaySize,
		"GameplayLeftOn":   GameplayLeftOn,
		"GameplayLeftOff":  GameplayLeftOff,
		"GameplayRightOn":  GameplayRightOn,
		"GameplayRightOff": GameplayRightOff,
		"GameplayBack":     GameplayBack,
		"GameplayQuit":     GameplayQuit,
	}
}

