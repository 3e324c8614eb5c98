package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"marquee/internal/config"
	"marquee/internal/daemonrun"
)

func main() {
	_ = godotenv.Load()

	if err := newDaemonCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "marqueed: %v\n", err)
		os.Exit(1)
	}
}

func newDaemonCommand() *cobra.Command {
	var (
		configPath string
		opts       daemonrun.Options
	)
	cmd := &cobra.Command{
		Use:           "marqueed",
		Short:         "Marquee enrichment daemon",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "Run a single sweep and exit")
	cmd.Flags().BoolVar(&opts.Development, "dev", false, "Include source locations in log output")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Override the configured log level")
	return cmd
}
