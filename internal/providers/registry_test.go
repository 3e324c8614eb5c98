package providers_test

import (
	"errors"
	"slices"
	"testing"

	"marquee/internal/providers"
	"marquee/internal/testsupport"
	"marquee/internal/title"
)

func TestRegistryOrdersByPriority(t *testing.T) {
	reg, err := providers.NewRegistry(
		testsupport.NewFakeProvider(title.SourceCSFD),
		testsupport.NewFakeProvider(title.SourceTMDB),
		testsupport.NewFakeProvider(title.SourceIMDb),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	want := []title.Source{title.SourceTMDB, title.SourceIMDb, title.SourceCSFD}
	if got := reg.Sources(); !slices.Equal(got, want) {
		t.Fatalf("sources = %v, want %v", got, want)
	}
	if reg.Len() != 3 {
		t.Fatalf("len = %d", reg.Len())
	}
	if all := reg.All(); all[1].Source() != title.SourceIMDb {
		t.Fatalf("All()[1] = %v, want imdb", all[1].Source())
	}
}

func TestRegistryRejectsInvalidProviders(t *testing.T) {
	if _, err := providers.NewRegistry(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
	if _, err := providers.NewRegistry(testsupport.NewFakeProvider("letterboxd")); err == nil {
		t.Fatal("expected error for unknown source")
	}
	if _, err := providers.NewRegistry(
		testsupport.NewFakeProvider(title.SourceTMDB),
		testsupport.NewFakeProvider(title.SourceTMDB),
	); err == nil {
		t.Fatal("expected error for duplicate source")
	}
}

func TestHTTPStatusErrorClassification(t *testing.T) {
	notFound := &providers.HTTPStatusError{Provider: "tmdb", StatusCode: 404}
	wrapped := errors.Join(errors.New("fetch"), notFound)
	if !providers.IsNotFound(wrapped) {
		t.Fatal("expected wrapped 404 to be not found")
	}
	if providers.IsTransient(wrapped) {
		t.Fatal("404 must not be transient")
	}
	if !providers.IsTransient(&providers.HTTPStatusError{StatusCode: 503}) {
		t.Fatal("expected 503 to be transient")
	}
	if !providers.IsTransient(&providers.HTTPStatusError{StatusCode: 429}) {
		t.Fatal("expected 429 to be transient")
	}
	if got := notFound.Error(); got != "tmdb returned 404 (latency=0s)" {
		t.Fatalf("unexpected message %q", got)
	}
}
