package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/hotreload"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is ticking the current state
	EngineStageRunning
	// Engine is swapping the current state for the next one
	EngineStageTransitioning
	// The run loop is exiting
	EngineStageQuitting
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// ReloadActionName names the global binding that reloads the current state.
const ReloadActionName = "engine_reload"

// ReloadKey is bound to ReloadActionName in the global input context.
const ReloadKey = input.KeyF5

// ErrNotInitialized is returned by Run before Initialize succeeded.
var ErrNotInitialized = errors.New("engine is not initialized")

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig

	window   platform.Window
	platform *platform.Platform
	loader   dl.Loader
	watcher  ReloadRequester
	table    *state.Table

	callbacks input.Queue
	clock     *core.Clock
	metrics   *core.Metrics
	sleep     func(time.Duration)
	lastTime  float64

	current state.Type
	update  state.UpdateFunc
	mem     []byte

	quitRequested   atomic.Bool
	reloadRequested atomic.Bool
}

// New prepares an engine for g. Nothing is opened until Initialize.
func New(g *Game, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine needs a game")
	}
	cfg := g.ApplicationConfig
	if cfg == nil {
		cfg = DefaultApplicationConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		metrics:      core.NewMetrics(),
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = core.NewClock(nil)
	}
	return e, nil
}

// Initialize creates the platform, binds every state and starts the initial
// one.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing
	core.SetLogLevel(e.config.LogLevel())

	if e.window == nil {
		return errors.New("engine needs a window")
	}

	if err := e.setupLoader(); err != nil {
		return err
	}

	global := input.NewContext("global",
		input.BindAction(ReloadKey, input.NoKey, ReloadActionName, func(float64, []byte) {
			e.RequestReload()
		}),
	)
	e.platform = platform.New(e.window, e.config.Memory.InitialSize, global)
	if e.config.Loop.FPSCap > 0 {
		e.platform.FPSTarget = float64(e.config.Loop.FPSCap)
	}

	table, err := state.NewTable(e.gameInstance.States, e.loader, e.config.HotReload.Dir)
	if err != nil {
		return err
	}
	e.table = table
	if err := e.table.LoadAll(); err != nil {
		core.LogError("failed to load every state: %s", err)
	}

	initial := e.gameInstance.Initial
	if initial == state.Null {
		initial = state.First
	}
	if !e.table.Bound(initial) {
		return fmt.Errorf("%w: initial state '%s'", state.ErrUnbound, e.table.Name(initial))
	}

	if e.watcher == nil && e.config.HotReload.Enabled && e.config.HotReload.Watch {
		w, err := hotreload.New(e.config.HotReload.Dir, e.config.Debounce())
		if err != nil {
			core.LogWarn("hot reload watcher disabled: %s", err)
		} else {
			e.watcher = w
		}
	}

	e.start(initial, e.gameInstance.InitialArg)
	e.currentStage = EngineStageInitialized
	return nil
}

// setupLoader picks the plugin loader for hot reload builds and a static
// loader over Game.Static otherwise.
func (e *Engine) setupLoader() error {
	if e.loader == nil {
		if e.config.HotReload.Enabled {
			l, err := dl.NewPluginLoader("")
			if err != nil {
				return err
			}
			e.loader = l
		} else {
			e.loader = dl.NewStaticLoader()
		}
	}
	if static, ok := e.loader.(*dl.StaticLoader); ok {
		for name, syms := range e.gameInstance.Static {
			static.Register(state.LibraryPath(e.config.HotReload.Dir, name), syms)
		}
	}
	return nil
}

// start runs the init function of s and makes it current.
func (e *Engine) start(s state.Type, arg any) {
	begin := e.clock.Now()
	e.mem = e.table.Init(s, e.platform, arg)
	e.current = s
	e.update = e.table.UpdateFunc(s)
	core.LogInfo("Initializing state \"%s\" took %.1fms", e.table.Name(s), (e.clock.Now()-begin)*1000)
}

// Run ticks the current state until it returns state.Quit, the window closes
// or RequestQuit is called.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return ErrNotInitialized
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	var runningTime float64

	for e.currentStage != EngineStageQuitting {
		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.clock.Now()

		e.tick(delta)

		// Figure out how long the frame took and, if below the cap, give
		// the rest back to the OS.
		frameElapsedTime := e.clock.Now() - frameStartTime
		runningTime += frameElapsedTime
		if remaining := e.config.FrameTime() - frameElapsedTime; remaining > 0 && e.currentStage != EngineStageQuitting {
			e.sleep(time.Duration(remaining * float64(time.Second)))
		}
		e.benchmark(frameElapsedTime, e.clock.Now()-frameStartTime)

		e.lastTime = currentTime
	}
	core.LogDebug("run loop exited after %d frames (%.2fs busy)", e.platform.Frame, runningTime)
	return nil
}

// tick runs one frame: input, reloads, update, then render or transition.
func (e *Engine) tick(dt float64) {
	p := e.platform
	p.Window.PollEvents()
	if p.Window.ShouldClose() || e.quitRequested.Load() {
		e.quit()
		return
	}

	e.processInput()
	e.callbacks.Flush(dt, e.mem)
	e.serviceReloads()

	next := e.update(p, dt, e.mem)
	switch next {
	case state.Null:
		p.Window.BeginFrame()
		p.Window.Present()
	case state.Quit:
		e.quit()
		return
	default:
		e.transition(next)
	}

	// Input state copying is the last thing of a frame.
	p.Keyboard.Update()
	p.Frame++
}

// processInput turns the key events of this frame into queued callbacks.
func (e *Engine) processInput() {
	p := e.platform
	p.Events.Drain(func(ev platform.KeyEvent) {
		p.Keyboard.ProcessEvent(ev)
		if ev.Kind != input.EventKey || ev.Repeat {
			return
		}
		stamp := uint64(ev.Time * 1000)
		switch a := p.Input.GetAction(stamp, ev.Scancode).(type) {
		case input.NoAction:
		case input.Trigger:
			if ev.Pressed {
				e.enqueue(a.Name, a.Fn)
			}
		case input.Toggle:
			if ev.Pressed {
				e.enqueue(a.ActivateName, a.Activate)
			} else {
				e.enqueue(a.DeactivateName, a.Deactivate)
			}
		default:
			core.LogFatal("unknown input action %T", a)
		}
	})
}

func (e *Engine) enqueue(name string, fn input.Callback) {
	if fn == nil {
		if name != input.NullName {
			core.LogWarn("%s: '%s'", input.ErrUnresolved, name)
		}
		return
	}
	e.callbacks.Push(fn)
}

// serviceReloads performs the reloads requested since the last frame. The
// current state is reloaded together with its input contexts.
func (e *Engine) serviceReloads() {
	if e.reloadRequested.Swap(false) {
		e.reload(e.current)
	}
	if e.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-e.watcher.Requests():
			if !ok {
				e.watcher = nil
				return
			}
			s, found := e.table.Lookup(name)
			if !found {
				core.LogWarn("module '%s' does not belong to a declared state", name)
				continue
			}
			e.reload(s)
		default:
			return
		}
	}
}

func (e *Engine) reload(s state.Type) bool {
	var ctxs []*input.Context
	if s == e.current {
		ctxs = e.platform.Input.Contexts()
	}
	if !e.table.Reload(s, ctxs) {
		return false
	}
	if s == e.current {
		e.update = e.table.UpdateFunc(s)
	}
	return true
}

// transition frees the current state and starts next with its handoff value.
func (e *Engine) transition(next state.Type) {
	if !e.table.Declared(next) {
		core.LogFatal("%s: state '%s' returned %d", state.ErrUnknownState, e.table.Name(e.current), uint16(next))
	}
	e.currentStage = EngineStageTransitioning
	p := e.platform

	p.Window.DropDrawCalls()
	arg := e.table.Free(e.current, p, e.mem)
	p.Memory.Clear()
	p.Input.Reset()
	e.callbacks.Clear()
	p.ResetCamera()
	core.LogDebug("state '%s' -> '%s'", e.table.Name(e.current), e.table.Name(next))
	e.start(next, arg)

	e.currentStage = EngineStageRunning
}

// quit frees the current state and ends the run loop.
func (e *Engine) quit() {
	if e.currentStage == EngineStageQuitting {
		return
	}
	e.currentStage = EngineStageQuitting
	p := e.platform
	e.table.Free(e.current, p, e.mem)
	p.Memory.Clear()
	p.Input.Reset()
	e.callbacks.Clear()
	e.mem = nil
	core.LogInfo("quitting from state '%s'", e.table.Name(e.current))
}

func (e *Engine) benchmark(busy, wall float64) {
	if !e.config.Loop.Benchmark {
		return
	}
	e.metrics.Update(busy, wall)
	every := uint64(e.platform.FPSTarget)
	if every > 0 && e.platform.Frame%every == 0 {
		fps, ms := e.metrics.Frame()
		core.LogInfo("%.0f fps, %.3f ms/frame", fps, ms)
	}
}

// Shutdown releases the watcher, the state modules and the window.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
		e.watcher = nil
	}
	if e.table != nil {
		errs = append(errs, e.table.Close())
	}
	if c, ok := e.loader.(interface{ Cleanup() error }); ok {
		errs = append(errs, c.Cleanup())
	}
	if e.platform != nil {
		errs = append(errs, e.platform.Stop())
	}
	return errors.Join(errs...)
}

// RequestQuit makes the run loop quit at the start of the next frame. It is
// safe to call from any goroutine.
func (e *Engine) RequestQuit() {
	e.quitRequested.Store(true)
}

// RequestReload reloads the current state and its input contexts before the
// next update. It is safe to call from any goroutine.
func (e *Engine) RequestReload() {
	e.reloadRequested.Store(true)
}

// Stage returns where the engine is in its lifecycle.
func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Current returns the running state.
func (e *Engine) Current() state.Type {
	return e.current
}

func (e *Engine) Platform() *platform.Platform {
	return e.platform
}

func (e *Engine) States() *state.Table {
	return e.table
}
