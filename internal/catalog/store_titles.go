package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marquee/internal/matching"
	"marquee/internal/merge"
	"marquee/internal/title"
)

// GetByID fetches a title by identifier. A missing title yields nil, nil.
func (s *Store) GetByID(ctx context.Context, id string) (*title.Title, error) {
	ctx = ensureContext(ctx)
	t, err := getByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}
	return t, nil
}

func getByID(ctx context.Context, q queryer, id string) (*title.Title, error) {
	row := q.QueryRowContext(ctx, `SELECT `+titleColumns+` FROM titles WHERE id = ?`, id)
	t, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, q, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpsertByMatch creates fields as a new title when nothing matches, or merges
// fields into the first matching title otherwise. A non-empty fields.ID pins
// the target row. Otherwise the exact predicates are tried in order against
// titles of the same visibility; fuzzy predicates never select a row.
func (s *Store) UpsertByMatch(ctx context.Context, preds []matching.Predicate, fields *title.Title) (*title.Title, error) {
	if fields == nil {
		return nil, errors.New("upsert title: nil title")
	}
	visibility := fields.Visibility
	if visibility == "" {
		visibility = title.VisibilityPlaceholder
	}
	ctx = ensureContext(ctx)

	var saved *title.Title
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := findMatch(ctx, tx, fields.ID, visibility, matching.Exact(preds))
		if err != nil {
			return err
		}
		now := s.now().UTC()
		var next *title.Title
		if existing == nil {
			if fields.ID != "" {
				return fmt.Errorf("%w: %s", ErrNotFound, fields.ID)
			}
			next = fields.Clone()
			next.ID = uuid.NewString()
			next.Visibility = visibility
			next.CreatedAt = now
			next.UpdatedAt = now
		} else {
			next = merge.Merge(existing, fields.Result(), now)
		}
		next.Normalize()
		if err := next.Validate(); err != nil {
			return err
		}
		if err := writeTitle(ctx, tx, next, existing == nil); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert title: %w", err)
	}
	return saved, nil
}

// SetMergeCandidates replaces a placeholder's candidate list and bumps its
// update time. No other column is written.
func (s *Store) SetMergeCandidates(ctx context.Context, id string, candidates []title.MergeCandidate) error {
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("merge candidate %d: %w", i, err)
		}
	}
	if candidates == nil {
		candidates = []title.MergeCandidate{}
	}
	payload, err := encodeJSON(candidates)
	if err != nil {
		return fmt.Errorf("encode merge candidates: %w", err)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE titles SET merge_candidates_json = ?, updated_at = ? WHERE id = ? AND visibility = ?`,
		payload, formatTime(s.now()), id, title.VisibilityPlaceholder,
	)
	if err != nil {
		return fmt.Errorf("set merge candidates: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set merge candidates: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set merge candidates: %w: no placeholder %s", ErrNotFound, id)
	}
	return nil
}

func findMatch(ctx context.Context, q queryer, id string, visibility title.Visibility, preds []matching.Predicate) (*title.Title, error) {
	if id != "" {
		return getByID(ctx, q, id)
	}
	cols := prefixedColumns("t")
	for _, p := range preds {
		var (
			query string
			args  []any
		)
		switch p.Kind {
		case matching.KindExternalID:
			query = `SELECT ` + cols + ` FROM titles t
                JOIN title_external_ids e ON e.title_id = t.id
                WHERE e.source = ? AND e.external_id = ? AND t.visibility = ?
                LIMIT 1`
			args = []any{string(p.Source), p.ExternalID, visibility}
		case matching.KindNameYear:
			if p.Year == 0 || len(p.Names) == 0 {
				continue
			}
			query = `SELECT ` + cols + ` FROM titles t
                WHERE t.year = ? AND t.visibility = ? AND EXISTS (
                    SELECT 1 FROM title_names n
                    WHERE n.title_id = t.id AND n.name_key IN (` + makePlaceholders(len(p.Names)) + `)
                )
                ORDER BY t.created_at LIMIT 1`
			args = []any{p.Year, visibility}
			for _, name := range p.Names {
				args = append(args, name)
			}
		default:
			continue
		}
		t, err := scanTitle(q.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", p, err)
		}
		if err := hydrate(ctx, q, t); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, nil
}

func writeTitle(ctx context.Context, tx *sql.Tx, t *title.Title, insert bool) error {
	genres, err := encodeJSON(t.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	directors, err := encodeJSON(t.Directors)
	if err != nil {
		return fmt.Errorf("encode directors: %w", err)
	}
	actors, err := encodeJSON(t.Actors)
	if err != nil {
		return fmt.Errorf("encode actors: %w", err)
	}
	ratings, err := encodeJSON(t.Ratings)
	if err != nil {
		return fmt.Errorf("encode ratings: %w", err)
	}
	candidates, err := encodeJSON(t.MergeCandidates)
	if err != nil {
		return fmt.Errorf("encode merge candidates: %w", err)
	}

	if insert {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO titles (
                id, visibility, year, media_type, poster, duration_minutes,
                genres_json, directors_json, actors_json, ratings_json, avg_rating,
                merge_candidates_json, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Visibility, t.Year, nullableString(string(t.MediaType)), nullableString(t.Poster), t.DurationMinutes,
			genres, directors, actors, ratings, t.AvgRating,
			candidates, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE titles
             SET year = ?, media_type = ?, poster = ?, duration_minutes = ?,
                 genres_json = ?, directors_json = ?, actors_json = ?, ratings_json = ?,
                 avg_rating = ?, merge_candidates_json = ?, updated_at = ?
             WHERE id = ?`,
			t.Year, nullableString(string(t.MediaType)), nullableString(t.Poster), t.DurationMinutes,
			genres, directors, actors, ratings,
			t.AvgRating, candidates, formatTime(t.UpdatedAt),
			t.ID,
		)
	}
	if err != nil {
		return fmt.Errorf("write title row: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM title_names WHERE title_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear names: %w", err)
	}
	for locale, name := range t.Names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO title_names (title_id, locale, name, name_key) VALUES (?, ?, ?, ?)`,
			t.ID, locale, name, matching.NormalizeName(name),
		); err != nil {
			return fmt.Errorf("write name %s: %w", locale, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM title_external_ids WHERE title_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear external ids: %w", err)
	}
	for source, id := range t.ExternalIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO title_external_ids (title_id, source, external_id) VALUES (?, ?, ?)`,
			t.ID, string(source), id,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s %s", ErrConflict, source, id)
			}
			return fmt.Errorf("write external id %s: %w", source, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM title_search WHERE title_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear search row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO title_search (title_id, names) VALUES (?, ?)`,
		t.ID, strings.Join(t.NameVariants(), " | "),
	); err != nil {
		return fmt.Errorf("write search row: %w", err)
	}
	return nil
}

func prefixedColumns(alias string) string {
	cols := strings.Split(titleColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// SetClock overrides the store clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}
