package main

import (
	"github.com/spf13/cobra"

	"marquee/internal/daemonrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var once bool
	var development bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run periodic enrichment sweeps in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := daemonrun.Options{Once: once, Development: development}
			if ctx.verboseFlag != nil && *ctx.verboseFlag {
				opts.LogLevel = "debug"
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single sweep and exit")
	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in log output")
	return cmd
}
