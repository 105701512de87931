package main

import (
	"github.com/lixenwraith/optmap"
	"github.com/lixenwraith/optmap/packageinfo"
	"github.com/spf13/cobra"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var (
		tier      string
		file      string
		envPrefix string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "info HOME",
		Short: "Show package metadata with tier overrides applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := optmap.ParseFormat(format)
			if err != nil {
				return err
			}

			opts := []packageinfo.Option{packageinfo.WithLogger(ctx.logger)}
			if tier != "" {
				opts = append(opts, packageinfo.WithTier(tier))
			}
			if file != "" {
				opts = append(opts, packageinfo.WithPath(file))
			}
			if envPrefix != "" {
				opts = append(opts, packageinfo.WithEnvPrefix(envPrefix))
			}

			info, err := packageinfo.New(args[0], opts...)
			if err != nil {
				return err
			}
			if outFormat == optmap.FormatAuto {
				outFormat = optmap.FormatYAML
			}
			return writeMap(cmd, info.Map(), outFormat, "")
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "Active tier (default: environment, file, then dev)")
	cmd.Flags().StringVar(&file, "file", "", "Package file path (default: HOME/package.yaml)")
	cmd.Flags().StringVar(&envPrefix, "env-prefix", "", "Read the tier from <PREFIX>TIER")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: toml, json, yaml")

	return cmd
}
