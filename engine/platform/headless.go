package platform

import (
	"sync"

	"github.com/spaghettifunk/daw/engine/input"
)

// Headless is a Window without a display. Input events are scripted per poll,
// time advances by a fixed step on every poll, and every call is counted.
type Headless struct {
	mu sync.Mutex

	// Step is the time added by each PollEvents, in seconds.
	Step float64
	// CloseAfter makes ShouldClose report true once this many polls ran.
	// Zero means never.
	CloseAfter uint64
	Width      int
	Height     int

	script  map[uint64][]KeyEvent
	handler func(KeyEvent)
	time    float64
	closing bool

	Polls     uint64
	Frames    uint64
	Presents  uint64
	Drops     uint64
	Destroyed bool
}

// NewHeadless returns a 60Hz headless window that closes after closeAfter
// polls (zero for never).
func NewHeadless(closeAfter uint64) *Headless {
	return &Headless{
		Step:       1.0 / DefaultFPSTarget,
		CloseAfter: closeAfter,
		Width:      1280,
		Height:     720,
		script:     make(map[uint64][]KeyEvent),
	}
}

// Script queues events to be delivered by poll number poll (1-based).
func (h *Headless) Script(poll uint64, events ...KeyEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.script[poll] = append(h.script[poll], events...)
}

// Press scripts a key press followed by its release one poll later.
func (h *Headless) Press(poll uint64, ev KeyEvent) {
	down, up := ev, ev
	down.Pressed, up.Pressed = true, false
	h.Script(poll, down)
	h.Script(poll+1, up)
}

// MoveCursor scripts a cursor move to x, y at poll.
func (h *Headless) MoveCursor(poll uint64, x, y float64) {
	h.Script(poll, KeyEvent{Kind: input.EventCursor, X: x, Y: y})
}

// ScrollBy scripts a wheel offset at poll.
func (h *Headless) ScrollBy(poll uint64, dy float64) {
	h.Script(poll, KeyEvent{Kind: input.EventScroll, Y: dy})
}

func (h *Headless) PollEvents() {
	h.mu.Lock()
	h.Polls++
	h.time += h.Step
	events := h.script[h.Polls]
	delete(h.script, h.Polls)
	handler := h.handler
	now := h.time
	h.mu.Unlock()

	if handler == nil {
		return
	}
	for _, ev := range events {
		if ev.Time == 0 {
			ev.Time = now
		}
		handler(ev)
	}
}

func (h *Headless) ShouldClose() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closing || (h.CloseAfter > 0 && h.Polls >= h.CloseAfter)
}

func (h *Headless) SetShouldClose(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closing = v
}

func (h *Headless) Time() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.time
}

func (h *Headless) FramebufferSize() (int, int) {
	return h.Width, h.Height
}

func (h *Headless) BeginFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Frames++
}

func (h *Headless) Present() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Presents++
}

func (h *Headless) DropDrawCalls() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Drops++
}

func (h *Headless) SetKeyHandler(fn func(KeyEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = fn
}

func (h *Headless) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Destroyed = true
	return nil
}
