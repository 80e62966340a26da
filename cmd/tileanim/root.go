package main

import (
	"io"
	"log"

	"github.com/spf13/cobra"
)

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "tileanim",
		Short:         "Tile animation toolkit",
		Long:          "Pack, inspect and convert tile animation descriptors, and preview them in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newPackCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newMonitorCmd())

	return cmd
}
