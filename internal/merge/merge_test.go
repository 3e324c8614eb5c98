package merge_test

import (
	"reflect"
	"strconv"
	"testing"
	"time"

	"marquee/internal/merge"
	"marquee/internal/title"
)

func TestMergeFoldsRatingsGenresAndDirectors(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	now := created.Add(48 * time.Hour)
	existing := &title.Title{
		ID:         "t-1",
		Visibility: title.VisibilityPublic,
		Names:      map[string]string{"en": "Dune"},
		Ratings:    map[title.Source]float64{title.SourceTMDB: 7},
		Genres:     []title.Genre{title.GenreAction},
		Directors:  []string{},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	incoming := title.ProviderResult{
		Ratings:   map[title.Source]float64{title.SourceIMDb: 8},
		Genres:    []title.Genre{title.GenreDrama},
		Directors: []string{"X"},
	}

	got := merge.Merge(existing, incoming, now)

	wantRatings := map[title.Source]float64{title.SourceTMDB: 7, title.SourceIMDb: 8}
	if !reflect.DeepEqual(got.Ratings, wantRatings) {
		t.Fatalf("ratings = %v, want %v", got.Ratings, wantRatings)
	}
	if got.AvgRating != 7.5 {
		t.Fatalf("avgRating = %v, want 7.5", got.AvgRating)
	}
	if !reflect.DeepEqual(got.Genres, []title.Genre{title.GenreAction, title.GenreDrama}) {
		t.Fatalf("genres = %v", got.Genres)
	}
	if !reflect.DeepEqual(got.Directors, []string{"X"}) {
		t.Fatalf("directors = %v", got.Directors)
	}
	if got.ID != "t-1" || got.Visibility != title.VisibilityPublic || !got.CreatedAt.Equal(created) {
		t.Fatalf("identity fields not carried over: %+v", got)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt = %v, want %v", got.UpdatedAt, now)
	}
	if len(existing.Ratings) != 1 || len(existing.Genres) != 1 {
		t.Fatal("existing title was mutated")
	}
}

func TestMergeExistingScalarsWin(t *testing.T) {
	existing := &title.Title{
		Names:       map[string]string{"en": "Dune"},
		Year:        2021,
		MediaType:   title.MediaMovie,
		ExternalIDs: map[title.Source]string{title.SourceTMDB: "438631"},
		Ratings:     map[title.Source]float64{title.SourceTMDB: 7.8},
	}
	incoming := title.ProviderResult{
		Names:           map[string]string{"en": "Dune: Part One", "cs": "Duna"},
		Year:            2020,
		MediaType:       title.MediaSeries,
		Poster:          "https://example.com/dune.jpg",
		DurationMinutes: 155,
		ExternalIDs:     map[title.Source]string{title.SourceTMDB: "999", title.SourceIMDb: "tt1160419"},
		Ratings:         map[title.Source]float64{title.SourceTMDB: 1},
	}

	got := merge.Merge(existing, incoming, time.Now())

	if got.Names["en"] != "Dune" || got.Names["cs"] != "Duna" {
		t.Fatalf("names = %v", got.Names)
	}
	if got.Year != 2021 || got.MediaType != title.MediaMovie {
		t.Fatalf("scalars overwritten: year=%d type=%s", got.Year, got.MediaType)
	}
	if got.Poster != incoming.Poster || got.DurationMinutes != 155 {
		t.Fatalf("unset scalars not filled: poster=%q duration=%d", got.Poster, got.DurationMinutes)
	}
	if got.ExternalIDs[title.SourceTMDB] != "438631" || got.ExternalIDs[title.SourceIMDb] != "tt1160419" {
		t.Fatalf("external ids = %v", got.ExternalIDs)
	}
	if got.Ratings[title.SourceTMDB] != 7.8 || got.AvgRating != 7.8 {
		t.Fatalf("ratings = %v avg=%v", got.Ratings, got.AvgRating)
	}
}

func TestMergeCapsSets(t *testing.T) {
	var existingActors, incomingActors, incomingDirectors []string
	for i := range 8 {
		existingActors = append(existingActors, "actor-"+strconv.Itoa(i))
	}
	for i := range 6 {
		incomingActors = append(incomingActors, "new-actor-"+strconv.Itoa(i))
		incomingDirectors = append(incomingDirectors, "director-"+strconv.Itoa(i))
	}
	existing := &title.Title{Actors: existingActors, Directors: []string{"director-3"}}
	got := merge.Merge(existing, title.ProviderResult{Actors: incomingActors, Directors: incomingDirectors}, time.Now())

	if len(got.Actors) != title.MaxActors {
		t.Fatalf("expected %d actors, got %d", title.MaxActors, len(got.Actors))
	}
	if got.Actors[0] != "actor-0" || got.Actors[8] != "new-actor-0" || got.Actors[9] != "new-actor-1" {
		t.Fatalf("unexpected actor order: %v", got.Actors)
	}
	wantDirectors := []string{"director-3", "director-0", "director-1", "director-2", "director-4"}
	if !reflect.DeepEqual(got.Directors, wantDirectors) {
		t.Fatalf("directors = %v, want %v", got.Directors, wantDirectors)
	}
}

func TestMergeIsIdempotentForSubset(t *testing.T) {
	existing := &title.Title{
		ID:          "t-2",
		Visibility:  title.VisibilityPlaceholder,
		Names:       map[string]string{"en": "Arrival", "cs": "Příchozí"},
		Year:        2016,
		Genres:      []title.Genre{title.GenreSciFi, title.GenreDrama},
		Directors:   []string{},
		Actors:      []string{"Amy Adams"},
		Ratings:     map[title.Source]float64{title.SourceCSFD: 8.1},
		AvgRating:   8.1,
		ExternalIDs: map[title.Source]string{title.SourceCSFD: "372883"},
		MergeCandidates: []title.MergeCandidate{
			{InternalID: "other", Display: title.DisplayData{Names: map[string]string{"en": "Arrival"}}},
		},
	}
	subset := title.ProviderResult{
		Names:   map[string]string{"cs": "Příchozí"},
		Genres:  []title.Genre{title.GenreDrama},
		Ratings: map[title.Source]float64{title.SourceCSFD: 3},
	}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	once := merge.Merge(existing, subset, now)
	twice := merge.Merge(once, subset, now)

	want := existing.Clone()
	want.UpdatedAt = now
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("merge of subset changed title:\n got %+v\nwant %+v", once, want)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second merge not idempotent:\n got %+v\nwant %+v", twice, once)
	}
}

func TestMergeResultIsNotCommutative(t *testing.T) {
	a := title.ProviderResult{Names: map[string]string{"en": "Dune"}, Year: 2021, Genres: []title.Genre{title.GenreSciFi}}
	b := title.ProviderResult{Names: map[string]string{"en": "Dune (2021)"}, Year: 2021, Genres: []title.Genre{title.GenreAdventure}}

	ab := merge.MergeResult(a, b)
	ba := merge.MergeResult(b, a)

	if ab.Names["en"] != "Dune" || ba.Names["en"] != "Dune (2021)" {
		t.Fatalf("expected first argument to win names: ab=%v ba=%v", ab.Names, ba.Names)
	}
	if ab.Genres[0] != title.GenreSciFi || ba.Genres[0] != title.GenreAdventure {
		t.Fatalf("expected first argument genres first: ab=%v ba=%v", ab.Genres, ba.Genres)
	}
}

func TestMergeResultAvgRatingRoundsAndDefaultsToZero(t *testing.T) {
	got := merge.MergeResult(title.ProviderResult{}, title.ProviderResult{})
	if got.AvgRating != 0 {
		t.Fatalf("expected 0 average with no ratings, got %v", got.AvgRating)
	}
	got = merge.MergeResult(
		title.ProviderResult{Ratings: map[title.Source]float64{title.SourceTMDB: 7.26}},
		title.ProviderResult{Ratings: map[title.Source]float64{title.SourceIMDb: 8, title.SourceCSFD: 6.5}},
	)
	if got.AvgRating != 7.3 {
		t.Fatalf("expected 7.3, got %v", got.AvgRating)
	}
}

func TestMergeNilExisting(t *testing.T) {
	now := time.Now()
	got := merge.Merge(nil, title.ProviderResult{Names: map[string]string{"en": "Heat"}, Year: 1995}, now)
	if got.Names["en"] != "Heat" || got.Year != 1995 || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected merge from nil: %+v", got)
	}
}
