package testsupport

import (
	"context"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/matching"
	"marquee/internal/title"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustUpsert stores r with the given visibility, matching on its exact keys.
func MustUpsert(t testing.TB, store *catalog.Store, r title.ProviderResult, visibility title.Visibility) *title.Title {
	t.Helper()

	saved, err := store.UpsertByMatch(context.Background(), matching.KeysFor(r), title.FromResult(r, visibility))
	if err != nil {
		t.Fatalf("store.UpsertByMatch: %v", err)
	}
	return saved
}
