package title

import (
	"maps"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
)

// Title is the canonical persisted record.
type Title struct {
	ID              string             `json:"id"`
	Visibility      Visibility         `json:"visibility" validate:"required,oneof=public placeholder"`
	Names           map[string]string  `json:"names" validate:"dive,keys,required,endkeys,required"`
	Year            int                `json:"year,omitempty" validate:"gte=0,lte=3000"`
	MediaType       MediaType          `json:"mediaType,omitempty" validate:"omitempty,oneof=movie series other"`
	Poster          string             `json:"poster,omitempty" validate:"omitempty,url"`
	DurationMinutes int                `json:"durationMinutes,omitempty" validate:"gte=0"`
	Genres          []Genre            `json:"genres" validate:"dive,genre"`
	Directors       []string           `json:"directors" validate:"max=5,dive,required"`
	Actors          []string           `json:"actors" validate:"max=10,dive,required"`
	Ratings         map[Source]float64 `json:"ratingsBySource" validate:"dive,keys,source,endkeys,gte=0,lte=10"`
	AvgRating       float64            `json:"avgRating"`
	ExternalIDs     map[Source]string  `json:"externalIds" validate:"dive,keys,source,endkeys,required"`
	MergeCandidates []MergeCandidate   `json:"mergeCandidates,omitempty" validate:"dive"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ProviderResult is the ephemeral yield of one provider call.
type ProviderResult struct {
	Names           map[string]string  `json:"names"`
	Year            int                `json:"year,omitempty"`
	MediaType       MediaType          `json:"mediaType,omitempty"`
	Poster          string             `json:"poster,omitempty"`
	DurationMinutes int                `json:"durationMinutes,omitempty"`
	Genres          []Genre            `json:"genres,omitempty"`
	Directors       []string           `json:"directors,omitempty"`
	Actors          []string           `json:"actors,omitempty"`
	Ratings         map[Source]float64 `json:"ratingsBySource,omitempty"`
	AvgRating       float64            `json:"avgRating"`
	ExternalIDs     map[Source]string  `json:"externalIds,omitempty"`
}

// DisplayData is the frozen snapshot carried by a MergeCandidate.
type DisplayData struct {
	Names     map[string]string `json:"names"`
	Year      int               `json:"year,omitempty"`
	MediaType MediaType         `json:"mediaType,omitempty"`
	Poster    string            `json:"poster,omitempty"`
}

// MergeCandidate is an unconfirmed suggested match for a placeholder. Exactly
// one of InternalID or ExternalIDs is set.
type MergeCandidate struct {
	InternalID  string            `json:"internalId,omitempty"`
	ExternalIDs map[Source]string `json:"externalIds,omitempty"`
	Display     DisplayData       `json:"displayData"`
}

// IsInternal reports whether the candidate references a persisted title.
func (c MergeCandidate) IsInternal() bool {
	return c.InternalID != ""
}

// IsPublic reports whether the title is catalog-confirmed.
func (t *Title) IsPublic() bool {
	return t != nil && t.Visibility == VisibilityPublic
}

// IsPlaceholder reports whether the title is an unresolved stub.
func (t *Title) IsPlaceholder() bool {
	return t != nil && t.Visibility == VisibilityPlaceholder
}

// PrimaryName returns the display name used for provider searches.
func (t *Title) PrimaryName() string {
	if t == nil {
		return ""
	}
	return PrimaryName(t.Names)
}

// NameVariants returns the distinct names of the title in locale order.
func (t *Title) NameVariants() []string {
	if t == nil {
		return nil
	}
	return NameVariants(t.Names)
}

// Result projects the title onto the ephemeral result shape.
func (t *Title) Result() ProviderResult {
	return ProviderResult{
		Names:           maps.Clone(t.Names),
		Year:            t.Year,
		MediaType:       t.MediaType,
		Poster:          t.Poster,
		DurationMinutes: t.DurationMinutes,
		Genres:          slices.Clone(t.Genres),
		Directors:       slices.Clone(t.Directors),
		Actors:          slices.Clone(t.Actors),
		Ratings:         maps.Clone(t.Ratings),
		AvgRating:       t.AvgRating,
		ExternalIDs:     maps.Clone(t.ExternalIDs),
	}
}

// Display freezes the title into a candidate snapshot.
func (t *Title) Display() DisplayData {
	return DisplayData{Names: maps.Clone(t.Names), Year: t.Year, MediaType: t.MediaType, Poster: t.Poster}
}

// Clone returns a deep copy.
func (t *Title) Clone() *Title {
	if t == nil {
		return nil
	}
	out := *t
	out.Names = maps.Clone(t.Names)
	out.Genres = slices.Clone(t.Genres)
	out.Directors = slices.Clone(t.Directors)
	out.Actors = slices.Clone(t.Actors)
	out.Ratings = maps.Clone(t.Ratings)
	out.ExternalIDs = maps.Clone(t.ExternalIDs)
	if t.MergeCandidates != nil {
		out.MergeCandidates = make([]MergeCandidate, len(t.MergeCandidates))
		for i, c := range t.MergeCandidates {
			out.MergeCandidates[i] = c.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy.
func (c MergeCandidate) Clone() MergeCandidate {
	c.ExternalIDs = maps.Clone(c.ExternalIDs)
	c.Display.Names = maps.Clone(c.Display.Names)
	return c
}

// FromResult builds a title body from a provider result. Identity and
// timestamps are left for the store to assign.
func FromResult(r ProviderResult, visibility Visibility) *Title {
	t := &Title{
		Visibility:      visibility,
		Names:           maps.Clone(r.Names),
		Year:            r.Year,
		MediaType:       r.MediaType,
		Poster:          r.Poster,
		DurationMinutes: r.DurationMinutes,
		Genres:          slices.Clone(r.Genres),
		Directors:       slices.Clone(r.Directors),
		Actors:          slices.Clone(r.Actors),
		Ratings:         maps.Clone(r.Ratings),
		ExternalIDs:     maps.Clone(r.ExternalIDs),
	}
	t.Normalize()
	return t
}

// Display freezes the result into a candidate snapshot.
func (r ProviderResult) Display() DisplayData {
	return DisplayData{Names: maps.Clone(r.Names), Year: r.Year, MediaType: r.MediaType, Poster: r.Poster}
}

// PrimaryName returns the display name used for provider searches.
func (r ProviderResult) PrimaryName() string {
	return PrimaryName(r.Names)
}

// NameVariants returns the distinct names in locale order.
func (r ProviderResult) NameVariants() []string {
	return NameVariants(r.Names)
}

// Normalize trims, deduplicates, and caps set fields, drops empty map entries,
// recomputes AvgRating, and clears merge candidates on public titles.
func (t *Title) Normalize() {
	if t == nil {
		return
	}
	t.Names = cleanNames(t.Names)
	t.Poster = strings.TrimSpace(t.Poster)
	t.Genres = cleanGenres(t.Genres)
	t.Directors = capStrings(t.Directors, MaxDirectors)
	t.Actors = capStrings(t.Actors, MaxActors)
	t.Ratings = cleanRatings(t.Ratings)
	t.ExternalIDs = cleanExternalIDs(t.ExternalIDs)
	t.AvgRating = AvgRating(t.Ratings)
	if t.Visibility == VisibilityPublic || t.MergeCandidates == nil {
		t.MergeCandidates = []MergeCandidate{}
	}
}

// Normalize applies the same field hygiene as Title.Normalize and returns the
// cleaned result.
func (r ProviderResult) Normalize() ProviderResult {
	r.Names = cleanNames(r.Names)
	r.Poster = strings.TrimSpace(r.Poster)
	r.Genres = cleanGenres(r.Genres)
	r.Directors = capStrings(r.Directors, MaxDirectors)
	r.Actors = capStrings(r.Actors, MaxActors)
	r.Ratings = cleanRatings(r.Ratings)
	r.ExternalIDs = cleanExternalIDs(r.ExternalIDs)
	r.AvgRating = AvgRating(r.Ratings)
	return r
}

// AvgRating is the mean of finite ratings rounded to one decimal, or 0 when
// there are none.
func AvgRating(ratings map[Source]float64) float64 {
	var (
		sum   float64
		count int
	)
	for _, v := range ratings {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}

// preferredLocales are tried in order before falling back to the
// lexicographically smallest locale key.
var preferredLocales = []string{"en", "cs"}

// PrimaryName picks the search name from a locale map.
func PrimaryName(names map[string]string) string {
	for _, locale := range preferredLocales {
		if name := strings.TrimSpace(names[locale]); name != "" {
			return name
		}
	}
	for _, locale := range sortedLocales(names) {
		if name := strings.TrimSpace(names[locale]); name != "" {
			return name
		}
	}
	return ""
}

// NameVariants returns the distinct non-empty names in sorted-locale order.
func NameVariants(names map[string]string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, locale := range sortedLocales(names) {
		name := strings.TrimSpace(names[locale])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// AppendUnique appends values to dst that are not already present, keeping
// first-seen order.
func AppendUnique[T comparable](dst []T, values ...T) []T {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func sortedLocales(names map[string]string) []string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cleanNames(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for _, raw := range sortedLocales(in) {
		locale := strings.ToLower(strings.TrimSpace(raw))
		name := strings.TrimSpace(in[raw])
		if locale == "" || name == "" {
			continue
		}
		if _, exists := out[locale]; exists {
			continue
		}
		out[locale] = name
	}
	return out
}

func cleanGenres(in []Genre) []Genre {
	out := make([]Genre, 0, len(in))
	for _, g := range in {
		if IsKnownGenre(g) {
			out = AppendUnique(out, g)
		}
	}
	return out
}

func capStrings(in []string, limit int) []string {
	out := make([]string, 0, min(len(in), limit))
	for _, s := range in {
		if len(out) == limit {
			break
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = AppendUnique(out, s)
	}
	return out
}

func cleanRatings(in map[Source]float64) map[Source]float64 {
	out := make(map[Source]float64, len(in))
	for src, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[src] = v
	}
	return out
}

func cleanExternalIDs(in map[Source]string) map[Source]string {
	out := make(map[Source]string, len(in))
	for src, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out[src] = id
	}
	return out
}
