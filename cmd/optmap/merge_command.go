package main

import (
	"fmt"

	"github.com/lixenwraith/optmap"
	"github.com/spf13/cobra"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var (
		shallow   bool
		noAddKeys bool
		noConvert bool
		sets      []string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge files left to right, later files win",
		Long: "Merge configuration files left to right. The first file is the base; " +
			"each later file and every --set override is merged on top.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optmap.MergeOptions{
				Recursive:     !shallow,
				AddKeys:       !noAddKeys,
				ConvertNested: !noConvert,
			}

			var result *optmap.Map
			for _, path := range args {
				layer, err := optmap.LoadFile(path, optmap.FormatAuto)
				if err != nil {
					return err
				}
				if result == nil {
					result = layer
					continue
				}
				result.Merge(layer, opts)
				ctx.logger.Debug("merged layer", "path", path, "keys", result.Len())
			}

			if len(sets) > 0 {
				flags := make([]string, len(sets))
				for i, s := range sets {
					flags[i] = "--" + s
				}
				overrides, err := optmap.ParseOverrides(flags)
				if err != nil {
					return err
				}
				result.Merge(overrides, opts)
			}

			outFormat, err := optmap.ParseFormat(format)
			if err != nil {
				return err
			}
			return writeMap(cmd, result, outFormat, output)
		},
	}

	cmd.Flags().BoolVar(&shallow, "shallow", false, "Replace nested tables instead of merging them")
	cmd.Flags().BoolVar(&noAddKeys, "no-add-keys", false, "Only update keys present in the first file")
	cmd.Flags().BoolVar(&noConvert, "no-convert", false, "Keep nested tables of later layers unconverted")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a value, e.g. --set server.port=8080")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: toml, json, yaml, cbor (default: from --output or toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

func writeMap(cmd *cobra.Command, m *optmap.Map, format optmap.Format, output string) error {
	if output != "" {
		if err := optmap.SaveFile(output, m, format); err != nil {
			return fmt.Errorf("failed to write '%s': %w", output, err)
		}
		return nil
	}
	data, err := optmap.Encode(m, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
