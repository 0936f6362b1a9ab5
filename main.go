/*
daw runs the testbed game on the engine.

Usage:

	daw run      - Run the game
	daw states   - List the declared game states

Hot reload: build the state modules with `mage build:states`, then
`daw run --hot-reload`. Rebuilding a module reloads it; F5 reloads the
current state by hand.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/daw/engine"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "daw",
	Short:        "daw - a hot-reloadable game state engine",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", engine.DefaultConfigFile, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statesCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*engine.ApplicationConfig, error) {
	cfg, err := engine.LoadApplicationConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
