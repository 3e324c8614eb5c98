package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set tmdb.api_key and omdb.api_key (or export TMDB_API_KEY / OMDB_API_KEY) before running Marquee.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

type configView struct {
	Path            string `json:"path"`
	CatalogDriver   string `json:"catalogDriver"`
	CatalogTarget   string `json:"catalogTarget"`
	TMDB            bool   `json:"tmdb"`
	OMDb            bool   `json:"omdb"`
	CSFD            bool   `json:"csfd"`
	IntervalMinutes int    `json:"intervalMinutes"`
	StaleAfterDays  int    `json:"staleAfterDays"`
	Workers         int    `json:"workers"`
	LockPath        string `json:"lockPath"`
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			view := configView{
				Path:            ctx.configPath,
				CatalogDriver:   cfg.Catalog.Driver,
				CatalogTarget:   cfg.Catalog.SQLitePath,
				TMDB:            cfg.TMDB.Enabled,
				OMDb:            cfg.OMDb.Enabled,
				CSFD:            cfg.CSFD.Enabled,
				IntervalMinutes: cfg.Enrichment.IntervalMinutes,
				StaleAfterDays:  cfg.Enrichment.StaleAfterDays,
				Workers:         cfg.Enrichment.Workers,
				LockPath:        cfg.LockPath(),
			}
			if cfg.Catalog.Driver == "mongo" {
				view.CatalogTarget = cfg.Catalog.MongoDatabase
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			rows := [][]string{
				{"config", view.Path},
				{"catalog", view.CatalogDriver + " " + view.CatalogTarget},
				{"tmdb", yesNo(view.TMDB)},
				{"omdb", yesNo(view.OMDb)},
				{"csfd", yesNo(view.CSFD)},
				{"sweep interval (min)", strconv.Itoa(view.IntervalMinutes)},
				{"stale after (days)", strconv.Itoa(view.StaleAfterDays)},
				{"workers", strconv.Itoa(view.Workers)},
				{"lock", view.LockPath},
			}
			out := cmd.OutOrStdout()
			printTable(out, []string{"Setting", "Value"}, rows, nil)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
