package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the peria command tree, the same flat
// root-plus-subcommands shape as the teacher's helix sibling
// (helixml-helix/api/cmd/helix/root.go's NewRootCmd): one root, one
// command per distinct mode of operation.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "peria",
		Short: "peria is an exhibition engine",
		Long:  "peria drives a Wayland display through a frame tree instead of floating windows.",
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVerifyConfigCmd())
	return root
}
