package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/engine"
	"marquee/internal/title"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search every provider and merge results that describe the same title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				results, err := eng.Service.ReconcileSearch(c, query)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, results)
				}
				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
					return nil
				}
				rows := make([][]string, 0, len(results))
				for i, r := range results {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						r.PrimaryName(),
						formatYear(r.Year),
						string(r.MediaType),
						strconv.FormatFloat(r.AvgRating, 'f', 1, 64),
						formatIDs(r.ExternalIDs),
					})
				}
				printTable(cmd.OutOrStdout(), []string{"#", "Name", "Year", "Type", "Rating", "IDs"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight})
				return nil
			})
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var tmdbID, imdbID, csfdID, mediaType string

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Fetch provider records by id and store them as one public title",
		Example: "  marquee import --tmdb 438631 --imdb tt1160419 --type movie",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseMediaFlag(mediaType)
			if err != nil {
				return err
			}
			ids := map[title.Source]string{}
			for src, value := range map[title.Source]string{
				title.SourceTMDB: tmdbID,
				title.SourceIMDb: imdbID,
				title.SourceCSFD: csfdID,
			} {
				if value = strings.TrimSpace(value); value != "" {
					ids[src] = value
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("at least one of --tmdb, --imdb, or --csfd is required")
			}
			return ctx.withEngine(cmd, func(c context.Context, eng *engine.Engine) error {
				t, err := eng.Service.ImportTitle(c, ids, kind)
				if err != nil {
					return err
				}
				return ctx.renderTitle(cmd, t)
			})
		},
	}

	cmd.Flags().StringVar(&tmdbID, "tmdb", "", "TMDB id")
	cmd.Flags().StringVar(&imdbID, "imdb", "", "IMDb id (tt...)")
	cmd.Flags().StringVar(&csfdID, "csfd", "", "ČSFD film id")
	cmd.Flags().StringVarP(&mediaType, "type", "t", "", "Media type hint for TMDB: movie or series")
	return cmd
}
