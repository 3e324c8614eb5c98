package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"marquee/internal/logging"
	"marquee/internal/matching"
	"marquee/internal/providers"
	"marquee/internal/title"
)

// DefaultStaleAfter is the age after which a public title is refreshed even
// when it has no missing fields.
const DefaultStaleAfter = 30 * 24 * time.Hour

// Store is the catalog capability the service depends on.
type Store interface {
	GetByID(ctx context.Context, id string) (*title.Title, error)
	UpsertByMatch(ctx context.Context, preds []matching.Predicate, fields *title.Title) (*title.Title, error)
	FindPublicMatching(ctx context.Context, preds []matching.Predicate) ([]*title.Title, error)
	FindStalePublic(ctx context.Context, olderThan time.Time) ([]*title.Title, error)
	FindPlaceholders(ctx context.Context) ([]*title.Title, error)
	SetMergeCandidates(ctx context.Context, id string, candidates []title.MergeCandidate) error
}

// Service runs enrichment operations against a store and a provider registry.
type Service struct {
	store      Store
	registry   *providers.Registry
	logger     *slog.Logger
	workers    int
	staleAfter time.Duration
	now        func() time.Time
	refreshes  singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the base logger. A component attribute is added.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds how many sweep items run at once. Values below one fall
// back to a strictly sequential sweep.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = max(n, 1)
	}
}

// WithStaleAfter sets the age threshold used by RunEnrichment.
func WithStaleAfter(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithClock overrides the time source used for merges and staleness.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service.
func New(store Store, registry *providers.Registry, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("enrichment: store is required")
	}
	if registry == nil || registry.Len() == 0 {
		return nil, errors.New("enrichment: at least one provider is required")
	}
	s := &Service{
		store:      store,
		registry:   registry,
		logger:     logging.NewNop(),
		workers:    1,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "enrichment")
	return s, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}
