// Package catalogaccess opens the configured catalog backend.
package catalogaccess

import (
	"context"
	"fmt"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/catalog/mongostore"
	"marquee/internal/config"
	"marquee/internal/matching"
	"marquee/internal/title"
)

// Catalog is the store surface shared by the SQLite and Mongo backends.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*title.Title, error)
	UpsertByMatch(ctx context.Context, preds []matching.Predicate, fields *title.Title) (*title.Title, error)
	FindPublicMatching(ctx context.Context, preds []matching.Predicate) ([]*title.Title, error)
	FindStalePublic(ctx context.Context, olderThan time.Time) ([]*title.Title, error)
	FindPlaceholders(ctx context.Context) ([]*title.Title, error)
	SetMergeCandidates(ctx context.Context, id string, candidates []title.MergeCandidate) error
	Count(ctx context.Context) (map[title.Visibility]int, error)
	DeletePlaceholders(ctx context.Context, ids []string) (int64, error)
}

var (
	_ Catalog = (*catalog.Store)(nil)
	_ Catalog = (*mongostore.Store)(nil)
)

// Session represents a catalog handle and its cleanup function.
type Session struct {
	Catalog Catalog
	Backend string
	close   func() error
}

// Close releases resources associated with the session.
func (s Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the backend selected by cfg.Catalog.Driver.
func Open(ctx context.Context, cfg *config.Config) (Session, error) {
	switch cfg.Catalog.Driver {
	case "", "sqlite":
		store, err := catalog.Open(cfg)
		if err != nil {
			return Session{}, fmt.Errorf("open sqlite catalog: %w", err)
		}
		return Session{Catalog: store, Backend: "sqlite:" + store.Path(), close: store.Close}, nil
	case "mongo":
		store, err := mongostore.Open(ctx, cfg.Catalog.MongoURI, cfg.Catalog.MongoDatabase)
		if err != nil {
			return Session{}, fmt.Errorf("open mongo catalog: %w", err)
		}
		return Session{Catalog: store, Backend: "mongo:" + cfg.Catalog.MongoDatabase, close: store.Close}, nil
	default:
		return Session{}, fmt.Errorf("unsupported catalog driver %q", cfg.Catalog.Driver)
	}
}
