package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marquee/internal/title"
)

// timeLayout is fixed width so stored timestamps compare lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const titleColumns = "id, visibility, year, media_type, poster, duration_minutes, genres_json, directors_json, actors_json, ratings_json, avg_rating, merge_candidates_json, created_at, updated_at"

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func scanTitle(scanner interface{ Scan(dest ...any) error }) (*title.Title, error) {
	var (
		t              title.Title
		visibility     string
		mediaType      sql.NullString
		poster         sql.NullString
		genresJSON     string
		directorsJSON  string
		actorsJSON     string
		ratingsJSON    string
		candidatesJSON string
		createdRaw     string
		updatedRaw     string
	)
	if err := scanner.Scan(
		&t.ID,
		&visibility,
		&t.Year,
		&mediaType,
		&poster,
		&t.DurationMinutes,
		&genresJSON,
		&directorsJSON,
		&actorsJSON,
		&ratingsJSON,
		&t.AvgRating,
		&candidatesJSON,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	t.Visibility = title.Visibility(visibility)
	t.MediaType = title.MediaType(mediaType.String)
	t.Poster = poster.String
	t.CreatedAt = parseTime(createdRaw)
	t.UpdatedAt = parseTime(updatedRaw)

	decode := []struct {
		field string
		raw   string
		dest  any
	}{
		{"genres", genresJSON, &t.Genres},
		{"directors", directorsJSON, &t.Directors},
		{"actors", actorsJSON, &t.Actors},
		{"ratings", ratingsJSON, &t.Ratings},
		{"merge candidates", candidatesJSON, &t.MergeCandidates},
	}
	for _, d := range decode {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(d.raw), d.dest); err != nil {
			return nil, fmt.Errorf("decode %s for %s: %w", d.field, t.ID, err)
		}
	}
	return &t, nil
}

// hydrate loads the side-table maps for t.
func hydrate(ctx context.Context, q queryer, t *title.Title) error {
	t.Names = map[string]string{}
	rows, err := q.QueryContext(ctx, "SELECT locale, name FROM title_names WHERE title_id = ?", t.ID)
	if err != nil {
		return fmt.Errorf("load names: %w", err)
	}
	for rows.Next() {
		var locale, name string
		if err := rows.Scan(&locale, &name); err != nil {
			rows.Close()
			return fmt.Errorf("scan name: %w", err)
		}
		t.Names[locale] = name
	}
	if err := rows.Close(); err != nil {
		return err
	}

	t.ExternalIDs = map[title.Source]string{}
	rows, err = q.QueryContext(ctx, "SELECT source, external_id FROM title_external_ids WHERE title_id = ?", t.ID)
	if err != nil {
		return fmt.Errorf("load external ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source, id string
		if err := rows.Scan(&source, &id); err != nil {
			return fmt.Errorf("scan external id: %w", err)
		}
		t.ExternalIDs[title.Source(source)] = id
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if t.Ratings == nil {
		t.Ratings = map[title.Source]float64{}
	}
	if t.MergeCandidates == nil {
		t.MergeCandidates = []title.MergeCandidate{}
	}
	return nil
}

// queryTitles runs a query selecting titleColumns and hydrates every row.
func queryTitles(ctx context.Context, q queryer, query string, args ...any) ([]*title.Title, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var titles []*title.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		titles = append(titles, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range titles {
		if err := hydrate(ctx, q, t); err != nil {
			return nil, err
		}
	}
	return titles, nil
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
