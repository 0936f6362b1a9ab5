package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/daw/engine/dl"
	"github.com/spaghettifunk/daw/engine/input"
	"github.com/spaghettifunk/daw/engine/math"
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/state"
)

const (
	alpha state.Type = state.First + iota
	beta
)

var testStates = []state.Declaration{
	{Type: alpha, Name: "alpha"},
	{Type: beta, Name: "beta"},
}

// recorder logs lifecycle calls in order.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// module returns the symbols of a state named name whose update is next.
func (r *recorder) module(name string, size uintptr, next func(tick int) state.Type) dl.Symbols {
	prefix := state.SymbolName(name, "")
	ticks := 0
	return dl.Symbols{
		prefix + "Init": func(p *platform.Platform, mem []byte, arg any) {
			r.add("%s.init(%v)", name, arg)
		},
		prefix + "Update": func(p *platform.Platform, dt float64, mem []byte) state.Type {
			ticks++
			r.add("%s.update", name)
			return next(ticks)
		},
		prefix + "Free": func(p *platform.Platform, mem []byte) any {
			r.add("%s.free", name)
			return name + "-handoff"
		},
		prefix + "Size": &size,
	}
}

func testConfig() *ApplicationConfig {
	cfg := DefaultApplicationConfig()
	cfg.Loop.FPSCap = 0
	cfg.Memory.InitialSize = 256
	cfg.HotReload.Dir = "states"
	cfg.Log.Level = "error"
	return cfg
}

func newTestEngine(t *testing.T, static map[string]dl.Symbols, w *platform.Headless, opts ...Option) *Engine {
	t.Helper()
	g := &Game{
		ApplicationConfig: testConfig(),
		States:            testStates,
		Initial:           alpha,
		InitialArg:        "boot",
		Static:            static,
	}
	opts = append([]Option{
		WithWindow(w),
		WithTimeSource(func() float64 { return float64(w.Polls) * w.Step }),
	}, opts...)
	e, err := New(g, opts...)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	return e
}

func never(int) state.Type { return state.Null }

func TestTransitionSequencing(t *testing.T) {
	rec := &recorder{}
	var alphaMem []byte
	var generationAtInit uint64

	alphaSyms := rec.module("alpha", 64, func(tick int) state.Type {
		if tick == 3 {
			return beta
		}
		return state.Null
	})
	alphaInit := alphaSyms["AlphaInit"].(func(*platform.Platform, []byte, any))
	alphaSyms["AlphaInit"] = func(p *platform.Platform, mem []byte, arg any) {
		alphaInit(p, mem, arg)
		for i := range mem {
			mem[i] = 0xAA
		}
		alphaMem = mem
		p.Camera.SetPosition(math.NewVec3(1, 2, 3))
	}

	betaSyms := rec.module("beta", 64, func(int) state.Type { return state.Quit })
	betaInit := betaSyms["BetaInit"].(func(*platform.Platform, []byte, any))
	betaSyms["BetaInit"] = func(p *platform.Platform, mem []byte, arg any) {
		generationAtInit = p.Memory.Generation()
		// the arena was cleared: alpha's bytes are gone
		for _, b := range alphaMem {
			require.Zero(t, b)
		}
		assert.Equal(t, platform.DefaultCameraPosition, p.Camera.GetPosition())
		betaInit(p, mem, arg)
	}

	w := platform.NewHeadless(0)
	e := newTestEngine(t, map[string]dl.Symbols{"alpha": alphaSyms, "beta": betaSyms}, w)
	require.NoError(t, e.Run())

	assert.Equal(t, []string{
		"alpha.init(boot)",
		"alpha.update",
		"alpha.update",
		"alpha.update",
		"alpha.free",
		"beta.init(alpha-handoff)",
		"beta.update",
		"beta.free",
	}, rec.calls)
	assert.EqualValues(t, 1, generationAtInit)
	assert.EqualValues(t, 2, w.Presents)
	assert.EqualValues(t, 1, w.Drops)
	assert.Equal(t, beta, e.Current())
	assert.Equal(t, EngineStageQuitting, e.Stage())

	require.NoError(t, e.Shutdown())
	assert.True(t, w.Destroyed)
}

func TestQuitShortCircuitsRendering(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(0)
	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": rec.module("alpha", 8, func(int) state.Type { return state.Quit }),
		"beta":  rec.module("beta", 8, never),
	}, w)
	require.NoError(t, e.Run())

	assert.Equal(t, []string{"alpha.init(boot)", "alpha.update", "alpha.free"}, rec.calls)
	assert.Zero(t, w.Presents)
	assert.Zero(t, w.Frames)
	assert.Zero(t, e.Platform().Memory.Pos())
}

func TestWindowCloseFreesState(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(3)
	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": rec.module("alpha", 8, never),
		"beta":  rec.module("beta", 8, never),
	}, w)
	require.NoError(t, e.Run())

	assert.Equal(t, []string{"alpha.init(boot)", "alpha.update", "alpha.update", "alpha.free"}, rec.calls)
	assert.EqualValues(t, 2, w.Presents)
}

func TestRequestQuit(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(0)
	var e *Engine
	e = newTestEngine(t, map[string]dl.Symbols{
		"alpha": rec.module("alpha", 8, func(int) state.Type {
			e.RequestQuit()
			return state.Null
		}),
		"beta": rec.module("beta", 8, never),
	}, w)
	require.NoError(t, e.Run())
	assert.Equal(t, []string{"alpha.init(boot)", "alpha.update", "alpha.free"}, rec.calls)
}

func TestInputTogglesAndTriggers(t *testing.T) {
	var got []string
	var stateMem []byte
	size := uintptr(4)
	alphaSyms := dl.Symbols{
		"AlphaInit": func(p *platform.Platform, mem []byte, arg any) {
			stateMem = mem
			p.Input.Push(input.NewContext("alpha",
				input.BindState(input.KeyD, input.KeyRight, "AlphaGo", "AlphaStop",
					func(dt float64, mem []byte) { got = append(got, "go"); mem[0]++ },
					func(dt float64, mem []byte) { got = append(got, "stop") }),
				input.BindAction(input.KeySpace, input.NoKey, "AlphaJump",
					func(dt float64, mem []byte) { got = append(got, "jump") }),
				input.BindActionLazy(input.KeyX, input.NoKey, input.NullName),
			))
		},
		"AlphaUpdate": func(p *platform.Platform, dt float64, mem []byte) state.Type { return state.Null },
		"AlphaFree":   func(p *platform.Platform, mem []byte) any { return nil },
		"AlphaSize":   &size,
	}
	rec := &recorder{}

	w := platform.NewHeadless(6)
	w.Press(1, platform.KeyEvent{Scancode: input.KeyRight})
	w.Script(3, platform.KeyEvent{Scancode: input.KeySpace, Pressed: true})
	w.Script(4, platform.KeyEvent{Scancode: input.KeySpace, Pressed: true, Repeat: true})
	w.Script(4, platform.KeyEvent{Scancode: input.KeySpace, Pressed: false})
	w.Press(4, platform.KeyEvent{Scancode: input.KeyX})
	w.Press(5, platform.KeyEvent{Scancode: input.KeyQ})

	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": alphaSyms,
		"beta":  rec.module("beta", 0, never),
	}, w)
	require.NoError(t, e.Run())

	assert.Equal(t, []string{"go", "stop", "jump"}, got)
	assert.EqualValues(t, 1, stateMem[0])
}

func TestDebugKeyReloadsCurrentState(t *testing.T) {
	rec := &recorder{}
	loader := dl.NewStaticLoader()
	path := state.LibraryPath("states", "alpha")

	var swapped bool
	w := platform.NewHeadless(0)
	w.Press(2, platform.KeyEvent{Scancode: ReloadKey})

	var jumps []string
	withJump := func(syms dl.Symbols, tag string) dl.Symbols {
		syms["AlphaJump"] = func(float64, []byte) { jumps = append(jumps, tag) }
		initFn := syms["AlphaInit"].(func(*platform.Platform, []byte, any))
		syms["AlphaInit"] = func(p *platform.Platform, mem []byte, arg any) {
			initFn(p, mem, arg)
			p.Input.Push(input.NewContext("alpha", input.BindActionLazy(input.KeyJ, input.NoKey, "AlphaJump")))
		}
		return syms
	}

	v1 := withJump(rec.module("alpha", 8, func(int) state.Type {
		if !swapped {
			swapped = true
			loader.Register(path, withJump(rec.module("alpha", 8, func(tick int) state.Type {
				if tick < 2 {
					return state.Null
				}
				rec.add("alpha.v2")
				return state.Quit
			}), "v2"))
		}
		return state.Null
	}), "v1")

	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": v1,
		"beta":  rec.module("beta", 8, never),
	}, w, WithLoader(loader))

	// lazy bindings pushed by init are resolved by a reload
	require.True(t, e.States().Reload(alpha, e.Platform().Input.Contexts()))
	w.Press(3, platform.KeyEvent{Scancode: input.KeyJ})

	require.NoError(t, e.Run())
	assert.Contains(t, rec.calls, "alpha.v2")
	assert.Equal(t, []string{"v2"}, jumps)
}

func TestFailedReloadKeepsRunningState(t *testing.T) {
	rec := &recorder{}
	loader := dl.NewStaticLoader()
	w := platform.NewHeadless(4)
	w.Press(1, platform.KeyEvent{Scancode: ReloadKey})

	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": rec.module("alpha", 8, never),
		"beta":  rec.module("beta", 8, never),
	}, w, WithLoader(loader))
	loader.Remove(state.LibraryPath("states", "alpha"))

	require.NoError(t, e.Run())
	assert.Equal(t, []string{
		"alpha.init(boot)",
		"alpha.update",
		"alpha.update",
		"alpha.update",
		"alpha.free",
	}, rec.calls)
}

type fakeWatcher struct {
	ch chan string
}

func (f *fakeWatcher) Requests() <-chan string { return f.ch }
func (f *fakeWatcher) Close() error             { return nil }

func TestWatcherReloadsOtherState(t *testing.T) {
	rec := &recorder{}
	loader := dl.NewStaticLoader()
	watcher := &fakeWatcher{ch: make(chan string, 4)}
	w := platform.NewHeadless(0)

	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": rec.module("alpha", 8, func(tick int) state.Type {
			if tick == 2 {
				return beta
			}
			return state.Null
		}),
		"beta": rec.module("beta", 8, never),
	}, w, WithLoader(loader), WithWatcher(watcher))

	loader.Register(state.LibraryPath("states", "beta"), rec.module("beta", 8, func(int) state.Type {
		rec.add("beta.v2")
		return state.Quit
	}))
	watcher.ch <- "beta"
	watcher.ch <- "unknown"

	require.NoError(t, e.Run())
	assert.Equal(t, "beta.v2", rec.calls[len(rec.calls)-2])
}

func TestInitializeRequiresBoundInitialState(t *testing.T) {
	g := &Game{ApplicationConfig: testConfig(), States: testStates, Initial: alpha}
	e, err := New(g, WithWindow(platform.NewHeadless(1)))
	require.NoError(t, err)
	err = e.Initialize()
	assert.True(t, errors.Is(err, state.ErrUnbound))

	e, err = New(&Game{ApplicationConfig: testConfig(), States: testStates})
	require.NoError(t, err)
	assert.Error(t, e.Initialize())
	assert.True(t, errors.Is(e.Run(), ErrNotInitialized))
}

func TestFrameCapSleeps(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(3)
	var slept []time.Duration
	g := &Game{
		ApplicationConfig: testConfig(),
		States:            testStates,
		Static: map[string]dl.Symbols{
			"alpha": rec.module("alpha", 0, never),
			"beta":  rec.module("beta", 0, never),
		},
	}
	g.ApplicationConfig.Loop.FPSCap = 50
	g.ApplicationConfig.Loop.Benchmark = true

	e, err := New(g,
		WithWindow(w),
		WithTimeSource(func() float64 { return 0 }),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
	)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	require.Len(t, slept, 2)
	assert.InDelta(t, float64(20*time.Millisecond), float64(slept[0]), float64(time.Microsecond))
	assert.Equal(t, 50.0, e.Platform().FPSTarget)
}

func TestUnknownNextStateIsFatal(t *testing.T) {
	if os.Getenv("DAW_ENGINE_CRASH") == "1" {
		rec := &recorder{}
		w := platform.NewHeadless(0)
		e := newTestEngine(t, map[string]dl.Symbols{
			"alpha": rec.module("alpha", 0, func(int) state.Type { return beta + 10 }),
			"beta":  rec.module("beta", 0, never),
		}, w)
		_ = e.Run()
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestUnknownNextStateIsFatal$")
	cmd.Env = append(os.Environ(), "DAW_ENGINE_CRASH=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected the process to exit, got %v", err)
	assert.False(t, exitErr.Success())
}

func TestBenchmarkCountsSleptFrames(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(150)
	g := &Game{
		ApplicationConfig: testConfig(),
		States:            testStates,
		Static: map[string]dl.Symbols{
			"alpha": rec.module("alpha", 0, never),
			"beta":  rec.module("beta", 0, never),
		},
	}
	g.ApplicationConfig.Loop.FPSCap = 60
	g.ApplicationConfig.Loop.Benchmark = true

	// Frames take no time; only the frame cap moves the clock.
	var now float64
	e, err := New(g,
		WithWindow(w),
		WithTimeSource(func() float64 { return now }),
		WithSleep(func(d time.Duration) { now += d.Seconds() }),
	)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	assert.InDelta(t, 60, e.metrics.FPS(), 1)
	assert.InDelta(t, 0, e.metrics.FrameTime(), 1e-9)
}

func TestCursorAndScrollReachKeyboard(t *testing.T) {
	rec := &recorder{}
	w := platform.NewHeadless(4)
	w.MoveCursor(2, 64, 32)
	w.ScrollBy(2, -1)

	var pos [2]float64
	var scroll float64
	var actions int
	alpha := rec.module("alpha", 0, func(tick int) state.Type {
		return state.Null
	})
	alpha["AlphaUpdate"] = func(p *platform.Platform, dt float64, mem []byte) state.Type {
		if p.Keyboard.Scroll() != 0 {
			pos[0], pos[1] = p.Keyboard.MousePosition()
			scroll = p.Keyboard.Scroll()
		}
		return state.Null
	}
	e := newTestEngine(t, map[string]dl.Symbols{
		"alpha": alpha,
		"beta":  rec.module("beta", 0, never),
	}, w)
	e.Platform().Input.Push(input.NewContext("any",
		input.BindAction(input.NoKey, input.NoKey, "never", func(float64, []byte) { actions++ }),
	))
	require.NoError(t, e.Run())

	assert.Equal(t, [2]float64{64, 32}, pos)
	assert.Equal(t, -1.0, scroll)
	assert.Zero(t, e.Platform().Keyboard.Scroll(), "scroll resets after the frame")
	assert.Zero(t, actions)
}
