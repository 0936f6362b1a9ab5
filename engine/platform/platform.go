package platform

import (
	"github.com/spaghettifunk/daw/engine/containers"
	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/math"
	"github.com/spaghettifunk/daw/engine/memory"
	"github.com/spaghettifunk/daw/engine/renderer/components"
)

// EventCapacity is the number of key events buffered between frames.
const EventCapacity = 256

// DefaultFPSTarget is used when no frame cap is configured.
const DefaultFPSTarget = 60

// DefaultCameraPosition is where the default camera sits after every state
// transition.
var DefaultCameraPosition = math.NewVec3(3, 0, 0)

// Platform bundles the services every state receives: window, camera, memory
// and input. It is created once by the engine and passed explicitly.
type Platform struct {
	Window Window
	// Camera is the active camera. States may point it at their own camera.
	Camera        *components.Camera
	DefaultCamera *components.Camera
	Memory        *memory.Memory
	Input         *input.Stack
	Keyboard      *input.Keyboard
	// Events buffers key events between PollEvents and the input phase.
	Events *containers.RingQueue[KeyEvent]

	Frame     uint64
	FPSTarget float64
}

// New builds a Platform around window with a memory arena of memSize bytes.
// The window's key handler is redirected into Events.
func New(window Window, memSize uint64, global *input.Context) *Platform {
	if window == nil {
		core.LogFatal("platform needs a window")
	}
	camera := components.NewCamera(DefaultCameraPosition)
	p := &Platform{
		Window:        window,
		Camera:        camera,
		DefaultCamera: camera,
		Memory:        memory.New(memSize),
		Input:         input.NewStack(global),
		Keyboard:      input.NewKeyboard(),
		Events:        containers.NewRingQueue[KeyEvent](EventCapacity),
		FPSTarget:     DefaultFPSTarget,
	}
	window.SetKeyHandler(p.pushEvent)
	p.fitCamera()
	return p
}

func (p *Platform) fitCamera() {
	if w, h := p.Window.FramebufferSize(); h > 0 {
		p.Camera.SetAspect(float32(w) / float32(h))
	}
}

func (p *Platform) pushEvent(ev KeyEvent) {
	if err := p.Events.Enqueue(ev); err != nil {
		core.LogWarn("dropping key event %d: %s", ev.Scancode, err)
	}
}

// ResetCamera switches back to the default camera at its home position.
func (p *Platform) ResetCamera() {
	p.DefaultCamera.Reset()
	p.Camera = p.DefaultCamera
	p.fitCamera()
}

// Stop destroys the window.
func (p *Platform) Stop() error {
	return p.Window.Destroy()
}
