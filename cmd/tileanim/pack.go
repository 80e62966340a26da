package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decker502/tileanim/pkg/loader"
	"github.com/decker502/tileanim/pkg/store"
)

type sourceFlags struct {
	format string
	table  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "auto", "Descriptor format: auto, tsx, yaml or bolt")
	cmd.Flags().StringVar(&f.table, "table", "", "Table name inside a bolt resource file")
}

func newPackCmd() *cobra.Command {
	var (
		src  sourceFlags
		name string
	)

	cmd := &cobra.Command{
		Use:   "pack <source> <resource-file>",
		Short: "Validate descriptors and store them in a bolt resource file",
		Example: `  # Pack the bundled tileset as table "tileset"
  tileanim pack data/tileset.tsx build/tiles.res

  # Pack a YAML descriptor under a custom name
  tileanim pack data/animations.yaml build/tiles.res --name overworld`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loader.LoadTable(args[0], src.format, src.table)
			if err != nil {
				return err
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			s, err := store.Open(args[1], false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.PutTable(name, table); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "packed %d animations into %s as '%s'\n", table.Len(), args[1], name)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Table name (defaults to the source file name)")
	return cmd
}
