package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/math"
)

// DefaultConfigFile is read when no config path is given.
const DefaultConfigFile = "daw.toml"

type WindowConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting position.
	PosX int `toml:"pos_x"`
	PosY int `toml:"pos_y"`
	// Window starting size.
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	RenderScale float64 `toml:"render_scale"`
	Resizable   bool    `toml:"resizable"`
	VSync       bool    `toml:"vsync"`
}

type MemoryConfig struct {
	// Bytes reserved for the memory of the running state.
	InitialSize uint64 `toml:"initial_size"`
}

type LoopConfig struct {
	// Frames per second the loop sleeps down to. Zero disables the cap.
	FPSCap int `toml:"fps_cap"`
	// Log frame rate and frame time once per second.
	Benchmark bool `toml:"benchmark"`
}

type HotReloadConfig struct {
	// Load states from plugin modules instead of the compiled-in tables.
	Enabled bool `toml:"enabled"`
	// Directory holding lib<state>.so.
	Dir string `toml:"dir"`
	// Reload a state as soon as its module is rebuilt.
	Watch      bool `toml:"watch"`
	DebounceMS int  `toml:"debounce_ms"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ApplicationConfig struct {
	Window    WindowConfig    `toml:"window"`
	Memory    MemoryConfig    `toml:"memory"`
	Loop      LoopConfig      `toml:"loop"`
	HotReload HotReloadConfig `toml:"hot_reload"`
	Log       LogConfig       `toml:"log"`
}

// DefaultApplicationConfig returns the settings used for anything the config
// file leaves out.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Window: WindowConfig{
			Name:        "daw",
			PosX:        100,
			PosY:        100,
			Width:       1280,
			Height:      720,
			RenderScale: 1,
			Resizable:   true,
			VSync:       true,
		},
		Memory: MemoryConfig{
			InitialSize: 64 << 20,
		},
		Loop: LoopConfig{
			FPSCap: 60,
		},
		HotReload: HotReloadConfig{
			Dir:        "build/states",
			Watch:      true,
			DebounceMS: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadApplicationConfig reads a TOML config over the defaults. An empty path
// or a missing file yields the defaults. Unknown keys are rejected.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogDebug("config file '%s' not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unusable values and clamps the rest into range.
func (c *ApplicationConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Memory.InitialSize == 0 {
		return errors.New("memory.initial_size must be positive")
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	c.Window.RenderScale = math.Clamp(c.Window.RenderScale, 0.1, 8)
	c.Loop.FPSCap = math.Clamp(c.Loop.FPSCap, 0, 1000)
	c.HotReload.DebounceMS = math.Clamp(c.HotReload.DebounceMS, 0, 10_000)
	if c.HotReload.Dir == "" {
		c.HotReload.Dir = "."
	}
	return nil
}

// LogLevel returns the configured log level, Info when unparsable.
func (c *ApplicationConfig) LogLevel() core.LogLevel {
	level, err := core.ParseLogLevel(c.Log.Level)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// Debounce returns the hot reload debounce as a duration.
func (c *ApplicationConfig) Debounce() time.Duration {
	return time.Duration(c.HotReload.DebounceMS) * time.Millisecond
}

// FrameTime returns the minimum frame duration, zero when uncapped.
func (c *ApplicationConfig) FrameTime() float64 {
	if c.Loop.FPSCap <= 0 {
		return 0
	}
	return 1 / float64(c.Loop.FPSCap)
}
