package platform

import "github.com/spaghettifunk/daw/engine/input"

// KeyEvent is a key, mouse button, cursor or wheel event reported by a Window.
type KeyEvent = input.Event

// Window is the OS window the engine drives. Implementations must be used
// from the main OS thread.
type Window interface {
	// PollEvents processes pending OS events, invoking the event handler.
	PollEvents()
	ShouldClose() bool
	SetShouldClose(bool)
	// Time returns seconds since the window was created.
	Time() float64
	FramebufferSize() (int, int)
	// BeginFrame clears the back buffer.
	BeginFrame()
	// Present swaps buffers, showing every draw call submitted this frame.
	Present()
	// DropDrawCalls discards draw calls submitted since BeginFrame.
	DropDrawCalls()
	SetKeyHandler(func(KeyEvent))
	Destroy() error
}
