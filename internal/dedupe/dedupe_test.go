package dedupe_test

import (
	"reflect"
	"testing"

	"marquee/internal/dedupe"
	"marquee/internal/title"
)

func TestDedupeMergesByNameAndYear(t *testing.T) {
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "Dune"}, Year: 2021, ExternalIDs: map[title.Source]string{title.SourceTMDB: "1"}},
		{Names: map[string]string{"en": "Dune"}, Year: 2021, ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt1"}},
	})
	if len(got) != 1 {
		t.Fatalf("expected one cluster, got %d: %+v", len(got), got)
	}
	want := map[title.Source]string{title.SourceTMDB: "1", title.SourceIMDb: "tt1"}
	if !reflect.DeepEqual(got[0].ExternalIDs, want) {
		t.Fatalf("external ids = %v, want %v", got[0].ExternalIDs, want)
	}
}

func TestDedupeKeepsDifferentYearsApart(t *testing.T) {
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "Dune"}, Year: 2021},
		{Names: map[string]string{"en": "Dune"}, Year: 1984},
		{Names: map[string]string{"en": "Dune"}},
	})
	if len(got) != 3 {
		t.Fatalf("expected three clusters, got %d: %+v", len(got), got)
	}
	if got[0].Year != 2021 || got[1].Year != 1984 || got[2].Year != 0 {
		t.Fatalf("discovery order not preserved: %+v", got)
	}
}

func TestDedupeFirstSeenWins(t *testing.T) {
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "Arrival"}, Year: 2016, Poster: "https://tmdb.example/a.jpg", ExternalIDs: map[title.Source]string{title.SourceTMDB: "329865"}},
		{Names: map[string]string{"en": "Sicario"}, Year: 2015, ExternalIDs: map[title.Source]string{title.SourceTMDB: "273481"}},
		{Names: map[string]string{"cs": "Příchozí"}, Year: 2016, Poster: "https://csfd.example/a.jpg", ExternalIDs: map[title.Source]string{title.SourceTMDB: "329865", title.SourceCSFD: "372883"}},
	})
	if len(got) != 2 {
		t.Fatalf("expected two clusters, got %d", len(got))
	}
	first := got[0]
	if first.Poster != "https://tmdb.example/a.jpg" {
		t.Fatalf("expected first-seen poster, got %q", first.Poster)
	}
	if first.Names["cs"] != "Příchozí" || first.ExternalIDs[title.SourceCSFD] != "372883" {
		t.Fatalf("expected later data to fill gaps: %+v", first)
	}
	if got[1].Names["en"] != "Sicario" {
		t.Fatalf("unexpected second cluster: %+v", got[1])
	}
}

func TestDedupeTransitiveMatchThroughRepresentative(t *testing.T) {
	// The third result shares only the imdb id that the first cluster gained
	// from the second result.
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "Heat"}, Year: 1995, ExternalIDs: map[title.Source]string{title.SourceTMDB: "949"}},
		{Names: map[string]string{"en": "Heat"}, Year: 1995, ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt0113277"}},
		{Names: map[string]string{"cs": "Nelítostný souboj"}, Year: 1995, ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt0113277"}},
	})
	if len(got) != 1 {
		t.Fatalf("expected one cluster, got %d: %+v", len(got), got)
	}
	if got[0].Names["cs"] != "Nelítostný souboj" {
		t.Fatalf("names = %v", got[0].Names)
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := dedupe.Dedupe(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

func TestDedupeSharedExternalIDOverridesNameAndYear(t *testing.T) {
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "Spirited Away"}, Year: 2001, ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt0245429"}},
		{Names: map[string]string{"cs": "Cesta do fantazie"}, Year: 2002, ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt0245429", title.SourceCSFD: "30405"}},
	})
	if len(got) != 1 {
		t.Fatalf("expected one cluster, got %d: %+v", len(got), got)
	}
	if got[0].Year != 2001 || got[0].Names["cs"] != "Cesta do fantazie" || got[0].ExternalIDs[title.SourceCSFD] != "30405" {
		t.Fatalf("unexpected merged representative %+v", got[0])
	}
}

func TestDedupeClustersPaddedExternalIDs(t *testing.T) {
	got := dedupe.Dedupe([]title.ProviderResult{
		{Names: map[string]string{"en": "A"}, ExternalIDs: map[title.Source]string{title.SourceTMDB: " 42"}},
		{Names: map[string]string{"en": "B"}, ExternalIDs: map[title.Source]string{title.SourceTMDB: "42 "}},
		{Names: map[string]string{"en": "C"}, ExternalIDs: map[title.Source]string{title.SourceTMDB: "42"}},
	})
	if len(got) != 1 {
		t.Fatalf("expected one cluster for a shared id, got %d: %+v", len(got), got)
	}
	if got[0].Names["en"] != "A" {
		t.Fatalf("expected first result to stay representative, got %+v", got[0])
	}
}
