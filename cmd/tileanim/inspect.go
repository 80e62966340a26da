package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decker502/tileanim/pkg/config"
	"github.com/decker502/tileanim/pkg/loader"
	"github.com/decker502/tileanim/pkg/store"
	"github.com/decker502/tileanim/pkg/tileanim"
)

func newInspectCmd() *cobra.Command {
	var (
		src    sourceFlags
		frames bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "List the animations of a descriptor source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			format := src.format
			if format == config.FormatAuto {
				detected, err := loader.DetectFormat(args[0])
				if err != nil {
					return err
				}
				format = detected
			}

			// 资源文件未指定表名时列出所有表
			if format == config.FormatBolt && src.table == "" {
				s, err := store.Open(args[0], true)
				if err != nil {
					return err
				}
				names, err := s.ListTables()
				s.Close()
				if err != nil {
					return err
				}
				if len(names) != 1 {
					fmt.Fprintf(out, "%s: %d tables\n", args[0], len(names))
					for _, n := range names {
						fmt.Fprintf(out, "  %s\n", n)
					}
					return nil
				}
			}

			table, err := loader.LoadTable(args[0], format, src.table)
			if err != nil {
				return err
			}
			printTable(out, table, frames)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&frames, "frames", false, "Print every frame of each animation")
	return cmd
}

func printTable(out io.Writer, table *tileanim.Table, frames bool) {
	fmt.Fprintf(out, "%d animated tiles\n", table.Len())
	for _, id := range table.BaseTileIDs() {
		seq, _ := table.Lookup(id)
		fmt.Fprintf(out, "tile %d: %d frames, %dms\n", id, seq.Len(), seq.TotalDurationMs())
		if !frames {
			continue
		}
		parts := make([]string, seq.Len())
		for i, f := range seq.Frames() {
			parts[i] = fmt.Sprintf("%d:%d", f.FrameTileID, f.DurationMs)
		}
		fmt.Fprintf(out, "  %s\n", strings.Join(parts, " "))
	}
}
