// Command stategen turns a TOML list of game states into Go declarations.
//
//	//go:generate go run github.com/spaghettifunk/daw/cmd/stategen -i states.toml -o states_gen.go
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/daw/engine/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:          "stategen",
		Short:        "Generate state declarations from a TOML state list",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(in, out)
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "states.toml", "state list to read")
	cmd.Flags().StringVarP(&out, "output", "o", "states_gen.go", "Go file to write")
	return cmd
}

func run(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	list, err := Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	src, err := Generate(list, filepath.Base(in))
	if err != nil {
		return fmt.Errorf("generating %s: %w", out, err)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return err
	}
	core.LogInfo("wrote %d states to %s", len(list.States), out)
	return nil
}
