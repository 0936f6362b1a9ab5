package gameplay

import (
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
)

// Module symbols. A plugin build of this package is looked up by these names.

var GameplaySize = Size

func GameplayInit(p *platform.Platform, mem []byte, arg any) { Init(p, mem, arg) }

func GameplayUpdate(p *platform.Platform, dt float64, mem []byte) state.Type {
	return Update(p, dt, mem)
}

func GameplayFree(p *platform.Platform, mem []byte) any { return Free(p, mem) }

func GameplayLeftOn(dt float64, mem []byte)   { LeftOn(dt, mem) }
func GameplayLeftOff(dt float64, mem []byte)  { LeftOff(dt, mem) }
func GameplayRightOn(dt float64, mem []byte)  { RightOn(dt, mem) }
func GameplayRightOff(dt float64, mem []byte) { RightOff(dt, mem) }
func GameplayBack(dt float64, mem []byte)     { Back(dt, mem) }
func GameplayQuit(dt float64, mem []byte)     { Quit(dt, mem) }
