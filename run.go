package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/daw/engine"
	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/platform"
	"github.com/spaghettifunk/daw/engine/platform/glfw"
	"github.com/spaghettifunk/daw/testbed"
)

var (
	flagHotReload bool
	flagHeadless  bool
	flagFrames    uint64
	flagFPS       int
	flagBenchmark bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the testbed game",
	Long: `Opens a window and runs the testbed from its first state.

With --hot-reload the states are loaded from lib<state>.so modules in the
configured directory and reloaded whenever they are rebuilt.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagHotReload, "hot-reload", false, "Load states from plugin modules and reload them on change")
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a window")
	runCmd.Flags().Uint64Var(&flagFrames, "frames", 0, "Stop after this many frames (0 = run until quit)")
	runCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frame cap, overrides loop.fps_cap")
	runCmd.Flags().BoolVar(&flagBenchmark, "benchmark", false, "Log frame rate once per second")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hot-reload") {
		cfg.HotReload.Enabled = flagHotReload
	}
	if cmd.Flags().Changed("fps") {
		cfg.Loop.FPSCap = flagFPS
	}
	if flagBenchmark {
		cfg.Loop.Benchmark = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	window, err := openWindow(cfg)
	if err != nil {
		return err
	}

	e, err := engine.New(testbed.NewGame(cfg), engine.WithWindow(window))
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		_ = window.Destroy()
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			core.LogInfo("signal received, quitting")
			e.RequestQuit()
		}
	}()

	if err := e.Run(); err != nil {
		return err
	}
	return e.Shutdown()
}

func openWindow(cfg *engine.ApplicationConfig) (platform.Window, error) {
	if flagHeadless {
		return platform.NewHeadless(flagFrames), nil
	}
	w, err := glfw.Open(glfw.Config{
		Title:     cfg.Window.Name,
		X:         cfg.Window.PosX,
		Y:         cfg.Window.PosY,
		Width:     int(float64(cfg.Window.Width) * cfg.Window.RenderScale),
		Height:    int(float64(cfg.Window.Height) * cfg.Window.RenderScale),
		VSync:     cfg.Window.VSync,
		Resizable: cfg.Window.Resizable,
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}
