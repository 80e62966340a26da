package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/loader"
)

func newConvertCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "convert <source> <output.yaml>",
		Short: "Convert descriptors to the YAML descriptor format",
		Long:  "Convert a tileset, YAML file or bolt table into a YAML descriptor file. The output is replaced atomically.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loader.LoadTable(args[0], src.format, src.table)
			if err != nil {
				return err
			}

			name := src.table
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			data, err := config.MarshalDescriptorYAML(loader.ToDescriptorFile(name, table))
			if err != nil {
				return err
			}
			if err := atomic.WriteFile(args[1], bytes.NewReader(data)); err != nil {
				return fmt.Errorf("failed to write '%s': %w", args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d animations to %s\n", table.Len(), args[1])
			return nil
		},
	}

	src.register(cmd)
	return cmd
}
