package title_test

import (
	"errors"
	"math"
	"testing"

	"marquee/internal/title"
)

func TestAvgRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings map[title.Source]float64
		want    float64
	}{
		{"empty", nil, 0},
		{"single", map[title.Source]float64{title.SourceTMDB: 7.25}, 7.3},
		{"mean", map[title.Source]float64{title.SourceTMDB: 7, title.SourceIMDb: 8}, 7.5},
		{"rounds", map[title.Source]float64{title.SourceTMDB: 7.1, title.SourceIMDb: 7.2, title.SourceCSFD: 7.2}, 7.2},
		{"skips nan", map[title.Source]float64{title.SourceTMDB: math.NaN(), title.SourceIMDb: 6}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := title.AvgRating(tt.ratings); got != tt.want {
				t.Fatalf("AvgRating() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrimaryNamePrefersEnglish(t *testing.T) {
	names := map[string]string{"cs": "Duna", "en": "Dune", "de": "Der Wüstenplanet"}
	if got := title.PrimaryName(names); got != "Dune" {
		t.Fatalf("PrimaryName() = %q, want Dune", got)
	}
	if got := title.PrimaryName(map[string]string{"fr": "Dune FR", "de": "Dune DE"}); got != "Dune DE" {
		t.Fatalf("PrimaryName() fallback = %q, want smallest locale", got)
	}
}

func TestNameVariantsDeduplicates(t *testing.T) {
	variants := title.NameVariants(map[string]string{"en": "Dune", "fr": "Dune", "cs": "Duna", "de": " "})
	if len(variants) != 2 || variants[0] != "Duna" || variants[1] != "Dune" {
		t.Fatalf("unexpected variants: %v", variants)
	}
}

func TestNormalizeCapsAndCleans(t *testing.T) {
	tt := &title.Title{
		Visibility: title.VisibilityPublic,
		Names:      map[string]string{" EN ": " Dune ", "fr": ""},
		Genres:     []title.Genre{"drama", "drama", "western"},
		Directors:  []string{"a", "b", "a", "c", "d", "e", "f", "g"},
		Ratings:    map[title.Source]float64{title.SourceTMDB: 8, title.SourceIMDb: math.Inf(1)},
		ExternalIDs: map[title.Source]string{
			title.SourceTMDB: " 438631 ",
			title.SourceIMDb: "",
		},
		MergeCandidates: []title.MergeCandidate{{InternalID: "x"}},
	}
	tt.Normalize()

	if tt.Names["en"] != "Dune" || len(tt.Names) != 1 {
		t.Fatalf("unexpected names: %v", tt.Names)
	}
	if len(tt.Genres) != 1 || tt.Genres[0] != title.GenreDrama {
		t.Fatalf("unexpected genres: %v", tt.Genres)
	}
	if len(tt.Directors) != title.MaxDirectors {
		t.Fatalf("expected directors capped at %d, got %v", title.MaxDirectors, tt.Directors)
	}
	if tt.Directors[0] != "a" || tt.Directors[1] != "b" || tt.Directors[2] != "c" {
		t.Fatalf("expected first-seen order preserved, got %v", tt.Directors)
	}
	if len(tt.Ratings) != 1 || tt.AvgRating != 8 {
		t.Fatalf("unexpected ratings: %v avg=%v", tt.Ratings, tt.AvgRating)
	}
	if tt.ExternalIDs[title.SourceTMDB] != "438631" || len(tt.ExternalIDs) != 1 {
		t.Fatalf("unexpected external ids: %v", tt.ExternalIDs)
	}
	if len(tt.MergeCandidates) != 0 {
		t.Fatalf("expected public title candidates cleared, got %v", tt.MergeCandidates)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *title.Title {
		tt := &title.Title{
			Visibility:  title.VisibilityPublic,
			Names:       map[string]string{"en": "Dune"},
			Year:        2021,
			MediaType:   title.MediaMovie,
			Genres:      []title.Genre{title.GenreSciFi},
			Ratings:     map[title.Source]float64{title.SourceTMDB: 7.8},
			ExternalIDs: map[title.Source]string{title.SourceTMDB: "438631"},
		}
		tt.Normalize()
		return tt
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid title, got %v", err)
	}

	cases := map[string]func(*title.Title){
		"public without names": func(tt *title.Title) { tt.Names = map[string]string{} },
		"unknown visibility":   func(tt *title.Title) { tt.Visibility = "hidden" },
		"unknown media type":   func(tt *title.Title) { tt.MediaType = "podcast" },
		"unknown genre":        func(tt *title.Title) { tt.Genres = []title.Genre{"western"} },
		"unknown source":       func(tt *title.Title) { tt.ExternalIDs = map[title.Source]string{"rt": "1"} },
		"rating out of range":  func(tt *title.Title) { tt.Ratings = map[title.Source]float64{title.SourceTMDB: 11} },
		"too many actors": func(tt *title.Title) {
			tt.Actors = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
		},
		"public with candidates": func(tt *title.Title) {
			tt.MergeCandidates = []title.MergeCandidate{{InternalID: "x"}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tt := valid()
			mutate(tt)
			err := tt.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, title.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestPlaceholderMayHaveNoNamesButCandidatesMustReference(t *testing.T) {
	tt := &title.Title{Visibility: title.VisibilityPlaceholder}
	tt.Normalize()
	if err := tt.Validate(); err != nil {
		t.Fatalf("expected empty placeholder to validate, got %v", err)
	}

	tt.MergeCandidates = []title.MergeCandidate{{}}
	if err := tt.Validate(); err == nil {
		t.Fatal("expected error for candidate without reference")
	}

	tt.MergeCandidates = []title.MergeCandidate{{InternalID: "a", ExternalIDs: map[title.Source]string{title.SourceTMDB: "1"}}}
	if err := tt.Validate(); err == nil {
		t.Fatal("expected error for candidate with both references")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &title.Title{
		Names:           map[string]string{"en": "Dune"},
		Directors:       []string{"Denis Villeneuve"},
		MergeCandidates: []title.MergeCandidate{{ExternalIDs: map[title.Source]string{title.SourceTMDB: "1"}}},
	}
	cp := orig.Clone()
	cp.Names["en"] = "Changed"
	cp.Directors[0] = "Changed"
	cp.MergeCandidates[0].ExternalIDs[title.SourceTMDB] = "2"
	if orig.Names["en"] != "Dune" || orig.Directors[0] != "Denis Villeneuve" || orig.MergeCandidates[0].ExternalIDs[title.SourceTMDB] != "1" {
		t.Fatalf("clone shares state with original: %#v", orig)
	}
}
