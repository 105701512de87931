package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

type commandContext struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:           "optmap",
		Short:         "Merge structured configuration files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.verbose {
				ctx.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(newMergeCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newFlattenCommand(ctx))

	return rootCmd
}
