package enrichment

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/dedupe"
	"marquee/internal/logging"
	"marquee/internal/matching"
	"marquee/internal/title"
)

// UpdatePlaceholderMergeCandidates rebuilds the candidate list of a
// placeholder from matching catalog titles and provider search results. Only
// the candidate list and its timestamp are written. Public titles are left
// untouched.
func (s *Service) UpdatePlaceholderMergeCandidates(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return wrap(ErrValidation, "candidates", "title id is required", nil)
	}
	ctx = logging.WithOperation(logging.WithTitleID(ctx, id), "candidates")
	logger := s.log(ctx)

	placeholder, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrap(ErrPersistence, "candidates", "load title", err)
	}
	if placeholder == nil {
		return wrap(ErrNotFound, "candidates", "title "+id, nil)
	}
	if !placeholder.IsPlaceholder() {
		logger.Debug("candidate discovery skipped", logging.String("reason", "title is public"))
		return nil
	}

	preds := matching.KeysForTitle(placeholder, matching.WithFuzzy())
	internal, err := s.store.FindPublicMatching(ctx, preds)
	if err != nil {
		return wrap(ErrPersistence, "candidates", "find catalog matches", err)
	}
	internal = rankInternal(preds, internal)

	var external []title.ProviderResult
	if query := placeholder.PrimaryName(); query != "" {
		external = dedupe.Dedupe(s.searchAll(ctx, "candidates", query))
	}

	candidates := buildCandidates(internal, external)
	if err := s.store.SetMergeCandidates(ctx, id, candidates); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return wrap(ErrNotFound, "candidates", "placeholder "+id+" no longer exists", err)
		}
		return wrap(ErrPersistence, "candidates", "save candidates", err)
	}
	logger.Info("merge candidates updated",
		logging.Int("internal", len(internal)),
		logging.Int("external", len(candidates)-len(internal)),
	)
	return nil
}

// rankInternal keeps exact catalog hits first in store order and orders the
// remaining text hits by name similarity, then year descending.
func rankInternal(preds []matching.Predicate, internal []*title.Title) []*title.Title {
	exact := matching.Exact(preds)
	var fuzzy *matching.Predicate
	for i := range preds {
		if preds[i].Kind == matching.KindFuzzy {
			fuzzy = &preds[i]
			break
		}
	}

	type scored struct {
		t     *title.Title
		score float64
	}
	ranked := make([]*title.Title, 0, len(internal))
	var loose []scored
	for _, t := range internal {
		if matching.HitAny(exact, t.Result()) {
			ranked = append(ranked, t)
			continue
		}
		var score float64
		if fuzzy != nil {
			score = matching.FuzzyScore(*fuzzy, t.Result())
		}
		loose = append(loose, scored{t: t, score: score})
	}
	slices.SortStableFunc(loose, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(b.t.Year, a.t.Year)
	})
	for _, s := range loose {
		ranked = append(ranked, s.t)
	}
	return ranked
}

// buildCandidates lists catalog matches first, then provider records that do
// not already belong to one of those matches.
func buildCandidates(internal []*title.Title, external []title.ProviderResult) []title.MergeCandidate {
	out := make([]title.MergeCandidate, 0, len(internal)+len(external))
	known := make([]title.ProviderResult, 0, len(internal))
	for _, t := range internal {
		out = append(out, title.MergeCandidate{InternalID: t.ID, Display: t.Display()})
		known = append(known, t.Result())
	}
	for _, r := range external {
		if len(r.ExternalIDs) == 0 {
			continue
		}
		duplicate := false
		for _, k := range known {
			if matching.SharesExternalID(k, r) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		out = append(out, title.MergeCandidate{ExternalIDs: r.ExternalIDs, Display: r.Display()})
	}
	return out
}

// CreatePlaceholder stores user-entered title data as a placeholder and runs
// candidate discovery for it. Discovery failures are logged; the stored
// placeholder is still returned.
func (s *Service) CreatePlaceholder(ctx context.Context, names map[string]string, year int, mediaType title.MediaType) (*title.Title, error) {
	body := title.ProviderResult{Names: names, Year: year, MediaType: mediaType}.Normalize()
	if body.PrimaryName() == "" {
		return nil, wrap(ErrValidation, "create", "at least one name is required", nil)
	}
	fields := title.FromResult(body, title.VisibilityPlaceholder)
	if err := fields.Validate(); err != nil {
		return nil, wrap(ErrValidation, "create", "invalid placeholder", err)
	}

	saved, err := s.store.UpsertByMatch(ctx, matching.KeysFor(body), fields)
	if err != nil {
		return nil, wrap(ErrPersistence, "create", "save placeholder", err)
	}
	ctx = logging.WithTitleID(ctx, saved.ID)
	if err := s.UpdatePlaceholderMergeCandidates(ctx, saved.ID); err != nil {
		logging.WarnWithContext(s.log(ctx), "candidate discovery failed", "candidate_discovery_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "placeholder stored without merge candidates"),
			logging.String(logging.FieldErrorHint, "run 'marquee candidates "+saved.ID+"' later"),
		)
		return saved, nil
	}
	if reloaded, err := s.store.GetByID(ctx, saved.ID); err == nil && reloaded != nil {
		return reloaded, nil
	}
	return saved, nil
}
