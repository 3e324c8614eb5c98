package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/engine"
	"marquee/internal/title"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <id>",
		Short: "Refresh a public title from its linked providers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				t, err := eng.Service.Refresh(c, args[0])
				if err != nil {
					return err
				}
				return ctx.renderTitle(cmd, t)
			})
		},
	}
}

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <id>",
		Short: "Rebuild merge candidates for a placeholder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				if err := eng.Service.UpdatePlaceholderMergeCandidates(c, args[0]); err != nil {
					return err
				}
				t, err := eng.Catalog.GetByID(c, args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("title %s not found", args[0])
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, t.MergeCandidates)
				}
				if !t.IsPlaceholder() {
					fmt.Fprintf(cmd.OutOrStdout(), "Title %s is public; nothing to do\n", t.ID)
					return nil
				}
				printCandidates(cmd.OutOrStdout(), t.MergeCandidates)
				return nil
			})
		},
	}
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Run one enrichment sweep over the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				summary := eng.Service.RunEnrichment(c)
				if ctx.jsonOutput() {
					return writeJSON(cmd, summary)
				}
				rows := [][]string{
					{"public refreshed", strconv.Itoa(summary.PublicRefreshed)},
					{"public failed", strconv.Itoa(summary.PublicFailed)},
					{"placeholders updated", strconv.Itoa(summary.PlaceholdersUpdated)},
					{"placeholders failed", strconv.Itoa(summary.PlaceholdersFailed)},
					{"duration", summary.Duration.Round(time.Millisecond).String()},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Sweep %s\n", summary.SweepID)
				printTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
				return nil
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog title counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				counts, err := eng.Catalog.Count(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, counts)
				}
				printTable(cmd.OutOrStdout(), []string{"Visibility", "Titles"}, [][]string{
					{"public", strconv.Itoa(counts[title.VisibilityPublic])},
					{"placeholder", strconv.Itoa(counts[title.VisibilityPlaceholder])},
				}, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog: %s\n", eng.Backend)
				return nil
			})
		},
	}
}
