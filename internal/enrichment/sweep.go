package enrichment

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"marquee/internal/logging"
	"marquee/internal/title"
)

// Summary reports the outcome of one enrichment sweep.
type Summary struct {
	SweepID             string        `json:"sweepId"`
	PublicRefreshed     int           `json:"publicRefreshed"`
	PublicFailed        int           `json:"publicFailed"`
	PlaceholdersUpdated int           `json:"placeholdersUpdated"`
	PlaceholdersFailed  int           `json:"placeholdersFailed"`
	Duration            time.Duration `json:"duration"`
}

// RunEnrichment refreshes every stale public title and then rebuilds the
// candidates of every placeholder. A failing item is logged and counted; the
// sweep always runs to completion unless ctx is cancelled, in which case no
// further items are started.
func (s *Service) RunEnrichment(ctx context.Context) Summary {
	start := time.Now()
	summary := Summary{SweepID: uuid.NewString()}
	ctx = logging.WithSweepID(ctx, summary.SweepID)
	logger := s.log(ctx)
	logger.Info("enrichment sweep started", logging.Int("workers", s.workers))

	olderThan := s.now().Add(-s.staleAfter)
	if stale, err := s.store.FindStalePublic(ctx, olderThan); err != nil {
		logging.ErrorWithContext(logger, "list stale titles failed", "sweep_list_failed",
			logging.Error(wrap(ErrPersistence, "sweep", "find stale titles", err)),
		)
	} else {
		summary.PublicRefreshed, summary.PublicFailed = s.sweep(ctx, "refresh", stale, s.RefreshTitleMetadata)
	}

	if placeholders, err := s.store.FindPlaceholders(ctx); err != nil {
		logging.ErrorWithContext(logger, "list placeholders failed", "sweep_list_failed",
			logging.Error(wrap(ErrPersistence, "sweep", "find placeholders", err)),
		)
	} else {
		summary.PlaceholdersUpdated, summary.PlaceholdersFailed = s.sweep(ctx, "candidates", placeholders, s.UpdatePlaceholderMergeCandidates)
	}

	summary.Duration = time.Since(start)
	logger.Info("enrichment sweep finished",
		logging.Int("public_refreshed", summary.PublicRefreshed),
		logging.Int("public_failed", summary.PublicFailed),
		logging.Int("placeholders_updated", summary.PlaceholdersUpdated),
		logging.Int("placeholders_failed", summary.PlaceholdersFailed),
		logging.Duration("duration", summary.Duration),
	)
	return summary
}

// sweep applies op to every item with at most s.workers in flight. Errors
// are contained per item.
func (s *Service) sweep(ctx context.Context, operation string, items []*title.Title, op func(context.Context, string) error) (int, int) {
	var done, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, item := range items {
		if ctx.Err() != nil {
			s.log(ctx).Warn("sweep interrupted",
				logging.String(logging.FieldOperation, operation),
				logging.Error(ctx.Err()),
			)
			break
		}
		id := item.ID
		g.Go(func() error {
			itemCtx := logging.WithTitleID(ctx, id)
			if err := op(itemCtx, id); err != nil {
				failed.Add(1)
				logging.WarnWithContext(s.log(itemCtx), "sweep item failed", "sweep_item_failed",
					logging.String(logging.FieldOperation, operation),
					logging.Error(err),
					logging.String(logging.FieldImpact, "item skipped until the next sweep"),
				)
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(done.Load()), int(failed.Load())
}
