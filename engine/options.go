package engine

import (
	"time"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/platform"
)

// ReloadRequester reports states whose module should be reloaded.
type ReloadRequester interface {
	Requests() <-chan string
	Close() error
}

type Option func(*Engine)

// WithWindow sets the window the engine drives.
func WithWindow(w platform.Window) Option {
	return func(e *Engine) {
		e.window = w
	}
}

// WithLoader replaces the loader state modules are opened with.
func WithLoader(l dl.Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithWatcher replaces the module watcher.
func WithWatcher(w ReloadRequester) Option {
	return func(e *Engine) {
		e.watcher = w
	}
}

// WithTimeSource replaces the clock the loop measures frames with.
func WithTimeSource(now core.TimeSource) Option {
	return func(e *Engine) {
		e.clock = core.NewClock(now)
	}
}

// WithSleep replaces the function used to wait out the frame cap.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}
