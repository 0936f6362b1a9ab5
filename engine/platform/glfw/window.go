// Package glfw provides the desktop Window backed by GLFW.
package glfw

import (
	"fmt"
	"runtime"
	"sync"

	glfwlib "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/platform"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Config describes the window to open.
type Config struct {
	Title     string
	X         int
	Y         int
	Width     int
	Height    int
	VSync     bool
	Resizable bool
}

var _ platform.Window = (*Window)(nil)

// Window is a GLFW window with an OpenGL 4.6 core context.
type Window struct {
	win       *glfwlib.Window
	startTime float64

	mu          sync.Mutex
	handler     func(platform.KeyEvent)
	width       int
	height      int
	pendingDraw int
}

// Open initializes GLFW and creates the window.
func Open(cfg Config) (*Window, error) {
	if err := glfwlib.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfwlib.WindowHint(glfwlib.Visible, glfwlib.False)
	glfwlib.WindowHint(glfwlib.Resizable, hint(cfg.Resizable))
	glfwlib.WindowHint(glfwlib.ContextVersionMajor, 4)
	glfwlib.WindowHint(glfwlib.ContextVersionMinor, 6)
	glfwlib.WindowHint(glfwlib.OpenGLProfile, glfwlib.OpenGLCoreProfile)
	glfwlib.WindowHint(glfwlib.OpenGLForwardCompatible, glfwlib.True)

	win, err := glfwlib.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfwlib.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfwlib.SwapInterval(1)
	} else {
		glfwlib.SwapInterval(0)
	}

	w := &Window{win: win}
	w.width, w.height = win.GetFramebufferSize()

	win.SetKeyCallback(w.keyCallback)
	win.SetMouseButtonCallback(w.mouseButtonCallback)
	win.SetCursorPosCallback(w.cursorPosCallback)
	win.SetScrollCallback(w.scrollCallback)
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	win.SetPos(cfg.X, cfg.Y)
	win.Show()

	w.startTime = glfwlib.GetTime()
	core.LogInfo("window '%s' created (%dx%d)", cfg.Title, w.width, w.height)
	return w, nil
}

func (w *Window) PollEvents() {
	glfwlib.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.win.SetShouldClose(v)
}

func (w *Window) Time() float64 {
	return glfwlib.GetTime() - w.startTime
}

func (w *Window) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) BeginFrame() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingDraw = 0
}

func (w *Window) Present() {
	w.win.SwapBuffers()
}

// DropDrawCalls forgets the frame's submissions so the next Present shows a
// cleared buffer.
func (w *Window) DropDrawCalls() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingDraw > 0 {
		core.LogDebug("dropping %d draw calls", w.pendingDraw)
	}
	w.pendingDraw = 0
}

func (w *Window) SetKeyHandler(fn func(platform.KeyEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = fn
}

func (w *Window) Destroy() error {
	w.win.Destroy()
	glfwlib.Terminate()
	return nil
}

func (w *Window) emit(ev platform.KeyEvent) {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func (w *Window) keyCallback(_ *glfwlib.Window, key glfwlib.Key, _ int, action glfwlib.Action, _ glfwlib.ModifierKey) {
	if key == glfwlib.KeyUnknown {
		return
	}
	w.emit(platform.KeyEvent{
		Scancode: input.Scancode(key),
		Pressed:  action != glfwlib.Release,
		Repeat:   action == glfwlib.Repeat,
		Time:     w.Time(),
	})
}

func (w *Window) mouseButtonCallback(_ *glfwlib.Window, button glfwlib.MouseButton, action glfwlib.Action, _ glfwlib.ModifierKey) {
	w.emit(platform.KeyEvent{
		Scancode: input.MouseButton(int(button)),
		Pressed:  action == glfwlib.Press,
		Time:     w.Time(),
	})
}

func (w *Window) cursorPosCallback(_ *glfwlib.Window, x, y float64) {
	w.emit(platform.KeyEvent{Kind: input.EventCursor, X: x, Y: y, Time: w.Time()})
}

func (w *Window) scrollCallback(_ *glfwlib.Window, _, yoff float64) {
	w.emit(platform.KeyEvent{Kind: input.EventScroll, Y: yoff, Time: w.Time()})
}

func hint(v bool) int {
	if v {
		return glfwlib.True
	}
	return glfwlib.False
}

func (w *Window) framebufferSizeCallback(_ *glfwlib.Window, width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}
