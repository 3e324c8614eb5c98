package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marquee/internal/matching"
	"marquee/internal/textutil"
	"marquee/internal/title"
)

// DefaultFuzzyLimit caps how many full-text hits FindPublicMatching returns.
const DefaultFuzzyLimit = 10

// FindPublicMatching returns public titles satisfying any predicate. Exact
// hits come first in predicate order, followed by full-text hits ranked by
// relevance and then year descending. Each title appears once.
func (s *Store) FindPublicMatching(ctx context.Context, preds []matching.Predicate) ([]*title.Title, error) {
	ctx = ensureContext(ctx)
	cols := prefixedColumns("t")
	var (
		out  []*title.Title
		seen = make(map[string]struct{})
	)
	collect := func(query string, args ...any) error {
		titles, err := queryTitles(ctx, s.db, query, args...)
		if err != nil {
			return err
		}
		for _, t := range titles {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
		return nil
	}

	for _, p := range preds {
		var err error
		switch p.Kind {
		case matching.KindExternalID:
			err = collect(`SELECT `+cols+` FROM titles t
                JOIN title_external_ids e ON e.title_id = t.id
                WHERE e.source = ? AND e.external_id = ? AND t.visibility = ?`,
				string(p.Source), p.ExternalID, title.VisibilityPublic)
		case matching.KindNameYear:
			if p.Year == 0 || len(p.Names) == 0 {
				continue
			}
			args := []any{p.Year, title.VisibilityPublic}
			for _, name := range p.Names {
				args = append(args, name)
			}
			err = collect(`SELECT `+cols+` FROM titles t
                WHERE t.year = ? AND t.visibility = ? AND EXISTS (
                    SELECT 1 FROM title_names n
                    WHERE n.title_id = t.id AND n.name_key IN (`+makePlaceholders(len(p.Names))+`)
                )
                ORDER BY t.created_at`, args...)
		case matching.KindFuzzy:
			match := ftsQuery(p.Names)
			if match == "" {
				continue
			}
			err = collect(`SELECT `+cols+` FROM title_search
                JOIN titles t ON t.id = title_search.title_id
                WHERE title_search MATCH ? AND t.visibility = ?
                ORDER BY bm25(title_search), t.year DESC
                LIMIT ?`, match, title.VisibilityPublic, DefaultFuzzyLimit)
		}
		if err != nil {
			return nil, fmt.Errorf("find public matching %s: %w", p.Kind, err)
		}
	}
	return out, nil
}

// ftsQuery turns name variants into an FTS5 disjunction of quoted terms.
func ftsQuery(names []string) string {
	var terms []string
	seen := make(map[string]struct{})
	for _, name := range names {
		for _, token := range textutil.Tokenize(name) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			terms = append(terms, `"`+strings.ReplaceAll(token, `"`, `""`)+`"`)
		}
	}
	return strings.Join(terms, " OR ")
}

// FindStalePublic returns public titles due for a metadata refresh: any
// content gap, any known source without a rating or id, or an update older
// than olderThan.
func (s *Store) FindStalePublic(ctx context.Context, olderThan time.Time) ([]*title.Title, error) {
	ctx = ensureContext(ctx)
	conditions := []string{
		"t.poster IS NULL OR t.poster = ''",
		"t.year = 0",
		"t.duration_minutes = 0",
		"t.genres_json = '[]'",
		"t.directors_json = '[]'",
		"t.actors_json = '[]'",
		"t.ratings_json = '{}'",
		"t.updated_at < ?",
	}
	args := []any{title.VisibilityPublic, formatTime(olderThan)}
	for _, src := range title.Sources {
		conditions = append(conditions,
			"json_extract(t.ratings_json, ?) IS NULL",
			"NOT EXISTS (SELECT 1 FROM title_external_ids e WHERE e.title_id = t.id AND e.source = ?)",
		)
		args = append(args, "$."+string(src), string(src))
	}
	query := `SELECT ` + prefixedColumns("t") + ` FROM titles t
        WHERE t.visibility = ? AND ((` + strings.Join(conditions, ") OR (") + `))
        ORDER BY t.updated_at, t.id`
	titles, err := queryTitles(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find stale titles: %w", err)
	}
	return titles, nil
}

// FindPlaceholders returns every placeholder, oldest update first.
func (s *Store) FindPlaceholders(ctx context.Context) ([]*title.Title, error) {
	ctx = ensureContext(ctx)
	titles, err := queryTitles(ctx, s.db,
		`SELECT `+titleColumns+` FROM titles WHERE visibility = ? ORDER BY updated_at, id`,
		title.VisibilityPlaceholder,
	)
	if err != nil {
		return nil, fmt.Errorf("find placeholders: %w", err)
	}
	return titles, nil
}
