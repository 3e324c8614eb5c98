package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"marquee/internal/title"
)

// Count returns the number of titles grouped by visibility.
func (s *Store) Count(ctx context.Context) (map[title.Visibility]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT visibility, COUNT(1) FROM titles GROUP BY visibility`)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}
	defer rows.Close()

	counts := make(map[title.Visibility]int)
	for rows.Next() {
		var (
			visibility string
			count      int
		)
		if err := rows.Scan(&visibility, &count); err != nil {
			return nil, err
		}
		counts[title.Visibility(visibility)] = count
	}
	return counts, rows.Err()
}

// DeletePlaceholders removes the given placeholders. Public titles among ids
// are left untouched. Returns the number of rows removed.
func (s *Store) DeletePlaceholders(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, title.VisibilityPlaceholder)
	for _, id := range ids {
		args = append(args, id)
	}
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM title_search WHERE title_id IN (
                SELECT id FROM titles WHERE visibility = ? AND id IN (`+makePlaceholders(len(ids))+`)
            )`, args...); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM titles WHERE visibility = ? AND id IN (`+makePlaceholders(len(ids))+`)`, args...)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete placeholders: %w", err)
	}
	return removed, nil
}
