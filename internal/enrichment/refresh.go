package enrichment

import (
	"context"
	"strings"

	"marquee/internal/logging"
	"marquee/internal/matching"
	"marquee/internal/merge"
	"marquee/internal/title"
)

// RefreshTitleMetadata re-fetches every provider record a public title is
// linked to and merges the results into it. Placeholders are left untouched.
// Concurrent calls for the same id share one execution.
func (s *Service) RefreshTitleMetadata(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return wrap(ErrValidation, "refresh", "title id is required", nil)
	}
	_, err, _ := s.refreshes.Do(id, func() (any, error) {
		return nil, s.refresh(ctx, id)
	})
	return err
}

func (s *Service) refresh(ctx context.Context, id string) error {
	ctx = logging.WithOperation(logging.WithTitleID(ctx, id), "refresh")
	logger := s.log(ctx)

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrap(ErrPersistence, "refresh", "load title", err)
	}
	if existing == nil {
		return wrap(ErrNotFound, "refresh", "title "+id, nil)
	}
	if !existing.IsPublic() {
		logger.Debug("refresh skipped", logging.String("reason", "title is a placeholder"))
		return nil
	}

	outcomes := s.fetchAll(ctx, "refresh", existing.ExternalIDs, existing.MediaType)
	merged := existing
	contributed := 0
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		if o.value == nil {
			logger.Debug("provider has no record",
				logging.String(logging.FieldProvider, string(o.source)),
				logging.String("external_id", existing.ExternalIDs[o.source]),
			)
			continue
		}
		merged = merge.Merge(merged, *o.value, s.now())
		contributed++
	}

	saved, err := s.store.UpsertByMatch(ctx, matching.KeysForTitle(merged), merged)
	if err != nil {
		return wrap(ErrPersistence, "refresh", "save title", err)
	}
	logger.Info("title refreshed",
		logging.Int("providers_queried", len(outcomes)),
		logging.Int("providers_contributed", contributed),
		logging.Float64("avg_rating", saved.AvgRating),
	)
	return nil
}

// Refresh runs both single-title operations for id and returns the stored
// title afterwards. Exactly one of them acts, depending on visibility.
func (s *Service) Refresh(ctx context.Context, id string) (*title.Title, error) {
	if err := s.RefreshTitleMetadata(ctx, id); err != nil {
		return nil, err
	}
	if err := s.UpdatePlaceholderMergeCandidates(ctx, id); err != nil {
		return nil, err
	}
	t, err := s.store.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, wrap(ErrPersistence, "refresh", "reload title", err)
	}
	if t == nil {
		return nil, wrap(ErrNotFound, "refresh", "title "+id, nil)
	}
	return t, nil
}

// ImportTitle fetches the referenced provider records, merges them in
// priority order, and stores the result as a public title. An existing public
// title sharing any of the fetched external ids absorbs the import.
func (s *Service) ImportTitle(ctx context.Context, ids map[title.Source]string, mediaType title.MediaType) (*title.Title, error) {
	requested := make(map[title.Source]string, len(ids))
	for src, id := range ids {
		if !title.IsKnownSource(src) {
			return nil, wrap(ErrValidation, "import", "unknown source "+string(src), nil)
		}
		if id = strings.TrimSpace(id); id != "" {
			requested[src] = id
		}
	}
	if len(requested) == 0 {
		return nil, wrap(ErrValidation, "import", "at least one external id is required", nil)
	}
	ctx = logging.WithOperation(ctx, "import")
	logger := s.log(ctx)

	var (
		body  title.ProviderResult
		found bool
	)
	for _, o := range s.fetchAll(ctx, "import", requested, mediaType) {
		if o.err != nil || o.value == nil {
			continue
		}
		body = merge.MergeResult(body, *o.value)
		found = true
	}
	if !found {
		return nil, wrap(ErrNotFound, "import", "no provider returned a record", nil)
	}

	var preds []matching.Predicate
	for _, p := range matching.KeysFor(body) {
		if p.Kind == matching.KindExternalID {
			preds = append(preds, p)
		}
	}
	saved, err := s.store.UpsertByMatch(ctx, preds, title.FromResult(body, title.VisibilityPublic))
	if err != nil {
		return nil, wrap(ErrPersistence, "import", "save title", err)
	}
	logger.Info("title imported",
		logging.String(logging.FieldTitleID, saved.ID),
		logging.String("name", saved.PrimaryName()),
		logging.Int("year", saved.Year),
	)
	return saved, nil
}
