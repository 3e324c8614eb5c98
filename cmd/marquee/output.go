package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"marquee/internal/title"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders rows as a rounded table on a terminal and as TSV when
// stdout is redirected.
func printTable(out io.Writer, headers []string, rows [][]string, aligns []columnAlignment) {
	if len(headers) == 0 {
		return
	}
	rendered := renderTable(headers, rows, aligns, isTerminal(out))
	fmt.Fprintln(out, rendered)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, interactive bool) string {
	columns := len(headers)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	if !interactive {
		return tw.RenderTSV()
	}
	return tw.Render()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatIDs lists external ids in provider priority order, e.g.
// "tmdb:438631 imdb:tt1160419".
func formatIDs(ids map[title.Source]string) string {
	parts := make([]string, 0, len(ids))
	for _, src := range title.Sources {
		if id, ok := ids[src]; ok && id != "" {
			parts = append(parts, string(src)+":"+id)
		}
	}
	return strings.Join(parts, " ")
}

func formatRatings(ratings map[title.Source]float64) string {
	parts := make([]string, 0, len(ratings))
	for _, src := range title.Sources {
		if v, ok := ratings[src]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.1f", src, v))
		}
	}
	return strings.Join(parts, " ")
}

func formatNames(names map[string]string) string {
	locales := make([]string, 0, len(names))
	for locale := range names {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	parts := make([]string, 0, len(locales))
	for _, locale := range locales {
		parts = append(parts, locale+"="+names[locale])
	}
	return strings.Join(parts, ", ")
}

func formatYear(year int) string {
	if year <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", year)
}

func joinGenres(genres []title.Genre) string {
	parts := make([]string, len(genres))
	for i, g := range genres {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}
