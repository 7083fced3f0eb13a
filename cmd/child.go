package cmd

import (
	"os"

	"github.com/josephlewis42/smallsh/core/spawn"
	"github.com/spf13/cobra"
)

// childCmd is the child side of every spawned program, see package spawn.
var childCmd = &cobra.Command{
	Use:                spawn.ChildCommand + " [-b] [-i PATH] [-o PATH] -- PROGRAM [ARG...]",
	Hidden:             true,
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(spawn.ChildMain(args))
	},
}

func init() {
	rootCmd.AddCommand(childCmd)
}
