package title

import (
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
)

// Module symbols. A plugin build of this package is looked up by these names.

var TitleSize = Size

func TitleInit(p *platform.Platform, mem []byte, arg any) { Init(p, mem, arg) }

func TitleUpdate(p *platform.Platform, dt float64, mem []byte) state.Type {
	return Update(p, dt, mem)
}

func TitleFree(p *platform.Platform, mem []byte) any { return Free(p, mem) }

func TitleStart(dt float64, mem []byte)     { Start(dt, mem) }
func TitleQuit(dt float64, mem []byte)      { Quit(dt, mem) }
func TitleNextLevel(dt float64, mem []byte) { NextLevel(dt, mem) }
