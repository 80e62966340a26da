package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/decker502/tileanim/pkg/loader"
	"github.com/decker502/tileanim/pkg/tileanim"
)

func newResolveCmd() *cobra.Command {
	var (
		src  sourceFlags
		atMs int64
	)

	cmd := &cobra.Command{
		Use:   "resolve <source> <tile-id>...",
		Short: "Print the frame each tile shows at a given time",
		Example: `  # Frame of tiles 68 and 8 after 1650ms
  tileanim resolve data/tileset.tsx --at 1650 68 8`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if atMs < 0 {
				return fmt.Errorf("--at must not be negative: %d", atMs)
			}

			ids := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid tile id '%s'", arg)
				}
				ids = append(ids, id)
			}

			table, err := loader.LoadTable(args[0], src.format, src.table)
			if err != nil {
				return err
			}

			// 不截断，一次推进到目标时间
			tracker := tileanim.NewTracker(table, tileanim.WithMaxStep(0))
			tracker.Tick(atMs)

			frames := make([]int, len(ids))
			tracker.Resolver().ResolveInto(frames, ids)

			out := cmd.OutOrStdout()
			for i, id := range ids {
				if tracker.Resolver().IsAnimated(id) {
					fmt.Fprintf(out, "%d -> %d\n", id, frames[i])
				} else {
					fmt.Fprintf(out, "%d -> %d (static)\n", id, frames[i])
				}
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().Int64Var(&atMs, "at", 0, "Elapsed time in milliseconds")
	return cmd
}
