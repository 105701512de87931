package main

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/optmap"
	"github.com/spf13/cobra"
)

func newFlattenCommand(ctx *commandContext) *cobra.Command {
	var forceTable bool

	cmd := &cobra.Command{
		Use:   "flatten FILE",
		Short: "List every leaf value with its dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := optmap.LoadFile(args[0], optmap.FormatAuto)
			if err != nil {
				return err
			}

			flat := m.Flatten()
			paths := make([]string, 0, len(flat))
			for path := range flat {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			ctx.logger.Debug("flattened", "path", args[0], "leaves", len(paths))

			rows := make([][]string, len(paths))
			for i, path := range paths {
				rows[i] = []string{path, fmt.Sprint(flat[path])}
			}

			out := cmd.OutOrStdout()
			if forceTable || isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Path", "Value"}, rows))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s\t%s\n", row[0], row[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceTable, "table", false, "Render a table even when stdout is not a terminal")

	return cmd
}
