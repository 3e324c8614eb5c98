package enrichment

import (
	"context"
	"strings"

	"marquee/internal/dedupe"
	"marquee/internal/logging"
	"marquee/internal/title"
)

// ReconcileSearch queries every provider for query and returns the
// deduplicated results. Nothing is persisted.
func (s *Service) ReconcileSearch(ctx context.Context, query string) ([]title.ProviderResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, wrap(ErrValidation, "search", "query must not be empty", nil)
	}
	ctx = logging.WithOperation(ctx, "search")
	raw := s.searchAll(ctx, "search", query)
	results := dedupe.Dedupe(raw)
	s.log(ctx).Debug("search reconciled",
		logging.String("query", query),
		logging.Int("raw", len(raw)),
		logging.Int("clusters", len(results)),
	)
	return results, nil
}
