package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/engine"
	"marquee/internal/title"
)

func newTitleCommand(ctx *commandContext) *cobra.Command {
	titleCmd := &cobra.Command{
		Use:   "title",
		Short: "Inspect and create catalog titles",
	}
	titleCmd.AddCommand(newTitleShowCommand(ctx))
	titleCmd.AddCommand(newTitleAddCommand(ctx))
	titleCmd.AddCommand(newTitlePruneCommand(ctx))
	return titleCmd
}

func newTitleShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				t, err := eng.Catalog.GetByID(c, args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("title %s not found", args[0])
				}
				return ctx.renderTitle(cmd, t)
			})
		},
	}
}

func newTitleAddCommand(ctx *commandContext) *cobra.Command {
	var names []string
	var year int
	var mediaType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a placeholder title and discover merge candidates",
		Example: `  marquee title add --name cs=Pelíšky --year 1999 --type movie
  marquee title add --name "The Matrix"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseNames(names)
			if err != nil {
				return err
			}
			kind, err := parseMediaFlag(mediaType)
			if err != nil {
				return err
			}
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				t, err := eng.Service.CreatePlaceholder(c, parsed, year, kind)
				if err != nil {
					return err
				}
				return ctx.renderTitle(cmd, t)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&names, "name", "n", nil, "Title name as locale=value (repeatable; bare values use en)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Release year")
	cmd.Flags().StringVarP(&mediaType, "type", "t", "", "Media type: movie, series, or other")
	return cmd
}

func newTitlePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune <id>...",
		Short: "Delete placeholders that were merged or abandoned",
		Long: `Delete the given placeholders from the catalog. Public titles among the
ids are never removed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, id := range args {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				removed, err := eng.Catalog.DeletePlaceholders(c, ids)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]int64{"removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d of %d placeholder(s)\n", removed, len(ids))
				return nil
			})
		},
	}
}

func parseNames(values []string) (map[string]string, error) {
	names := make(map[string]string, len(values))
	for _, raw := range values {
		locale, name, ok := strings.Cut(raw, "=")
		if !ok {
			locale, name = "en", raw
		}
		locale = strings.ToLower(strings.TrimSpace(locale))
		name = strings.TrimSpace(name)
		if locale == "" || name == "" {
			return nil, fmt.Errorf("invalid name %q: expected locale=value", raw)
		}
		names[locale] = name
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one --name is required")
	}
	return names, nil
}

func parseMediaFlag(value string) (title.MediaType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	kind := title.ParseMediaType(value)
	if kind == "" {
		return "", fmt.Errorf("unknown media type %q", value)
	}
	return kind, nil
}

func (c *commandContext) renderTitle(cmd *cobra.Command, t *title.Title) error {
	if c.jsonOutput() {
		return writeJSON(cmd, t)
	}
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"id", t.ID},
		{"visibility", string(t.Visibility)},
		{"names", formatNames(t.Names)},
		{"year", formatYear(t.Year)},
		{"type", string(t.MediaType)},
		{"genres", joinGenres(t.Genres)},
		{"duration", durationLabel(t.DurationMinutes)},
		{"directors", strings.Join(t.Directors, ", ")},
		{"actors", strings.Join(t.Actors, ", ")},
		{"ratings", formatRatings(t.Ratings)},
		{"avg rating", strconv.FormatFloat(t.AvgRating, 'f', 2, 64)},
		{"external ids", formatIDs(t.ExternalIDs)},
		{"poster", t.Poster},
		{"updated", t.UpdatedAt.Format("2006-01-02 15:04:05")},
	}
	printTable(out, []string{"Field", "Value"}, rows, nil)
	if t.IsPlaceholder() {
		printCandidates(out, t.MergeCandidates)
	}
	return nil
}

func printCandidates(out io.Writer, candidates []title.MergeCandidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No merge candidates")
		return
	}
	rows := make([][]string, 0, len(candidates))
	for i, cand := range candidates {
		kind, ref := "external", formatIDs(cand.ExternalIDs)
		if cand.IsInternal() {
			kind, ref = "internal", cand.InternalID
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			kind,
			title.PrimaryName(cand.Display.Names),
			formatYear(cand.Display.Year),
			string(cand.Display.MediaType),
			ref,
		})
	}
	printTable(out, []string{"#", "Kind", "Name", "Year", "Type", "Reference"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight})
}

func durationLabel(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d min", minutes)
}
