package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/daw/engine/state"
	"github.com/spaghettifunk/daw/testbed/states"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the declared game states",
	Long:  `Shows every declared state with its type, module file and exported symbols.`,
	Args:  cobra.NoArgs,
	RunE:  runStates,
}

func runStates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	maxNameLen := 4 // "Name" header
	for _, d := range states.Declarations {
		if len(d.Name) > maxNameLen {
			maxNameLen = len(d.Name)
		}
	}

	fmt.Fprintf(out, "  %-4s  %-*s  %s\n", "Type", maxNameLen, "Name", "Module")
	fmt.Fprintf(out, "  %-4s  %-*s  %s\n", "----", maxNameLen, "----", "------")
	for _, d := range states.Declarations {
		fmt.Fprintf(out, "  %-4d  %-*s  %s (%s, %s, %s)\n",
			d.Type, maxNameLen, d.Name,
			state.LibraryPath(cfg.HotReload.Dir, d.Name),
			state.SymbolName(d.Name, state.SymbolInit),
			state.SymbolName(d.Name, state.SymbolUpdate),
			state.SymbolName(d.Name, state.SymbolFree),
		)
	}
	if !cfg.HotReload.Enabled {
		fmt.Fprintf(out, "\nhot reload is off in %s, states are compiled in\n", flagConfig)
	}
	return nil
}
