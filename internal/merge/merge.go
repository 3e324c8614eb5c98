package merge

import (
	"maps"
	"slices"
	"strings"
	"time"

	"marquee/internal/title"
)

// Merge returns a new title holding existing augmented with incoming. Identity,
// visibility, creation time, and merge candidates come from existing;
// UpdatedAt is set to now. A nil existing is treated as an empty placeholder
// body so callers can seed new rows through the same path.
func Merge(existing *title.Title, incoming title.ProviderResult, now time.Time) *title.Title {
	var out *title.Title
	if existing == nil {
		out = &title.Title{}
	} else {
		out = existing.Clone()
	}

	body := MergeResult(out.Result(), incoming)
	out.Names = body.Names
	out.Year = body.Year
	out.MediaType = body.MediaType
	out.Poster = body.Poster
	out.DurationMinutes = body.DurationMinutes
	out.Genres = body.Genres
	out.Directors = body.Directors
	out.Actors = body.Actors
	out.Ratings = body.Ratings
	out.ExternalIDs = body.ExternalIDs
	out.AvgRating = body.AvgRating
	out.UpdatedAt = now
	return out
}

// MergeResult applies the merge rules to two provider results. existing wins
// every conflict.
func MergeResult(existing, incoming title.ProviderResult) title.ProviderResult {
	out := title.ProviderResult{
		Names:           unionText(existing.Names, incoming.Names),
		Year:            existing.Year,
		MediaType:       existing.MediaType,
		Poster:          existing.Poster,
		DurationMinutes: existing.DurationMinutes,
		Genres:          title.AppendUnique(slices.Clone(existing.Genres), incoming.Genres...),
		Directors:       unionStrings(existing.Directors, incoming.Directors, title.MaxDirectors),
		Actors:          unionStrings(existing.Actors, incoming.Actors, title.MaxActors),
		Ratings:         unionMap(existing.Ratings, incoming.Ratings),
		ExternalIDs:     unionText(existing.ExternalIDs, incoming.ExternalIDs),
	}
	if out.Year == 0 {
		out.Year = incoming.Year
	}
	if out.MediaType == "" {
		out.MediaType = incoming.MediaType
	}
	if strings.TrimSpace(out.Poster) == "" {
		out.Poster = incoming.Poster
	}
	if out.DurationMinutes == 0 {
		out.DurationMinutes = incoming.DurationMinutes
	}
	out.AvgRating = title.AvgRating(out.Ratings)
	return out
}

// unionMap copies existing and adds incoming keys that are absent.
func unionMap[K comparable, V any](existing, incoming map[K]V) map[K]V {
	out := maps.Clone(existing)
	if out == nil {
		out = make(map[K]V, len(incoming))
	}
	for k, v := range incoming {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// unionText is unionMap for text values; blank entries count as absent so an
// empty id or name never blocks a real one.
func unionText[K ~string](existing, incoming map[K]string) map[K]string {
	out := make(map[K]string, len(existing)+len(incoming))
	for _, group := range []map[K]string{existing, incoming} {
		for k, v := range group {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out
}

func unionStrings(existing, incoming []string, limit int) []string {
	out := make([]string, 0, min(len(existing)+len(incoming), limit))
	for _, group := range [][]string{existing, incoming} {
		for _, v := range group {
			if len(out) == limit {
				return out
			}
			v = strings.TrimSpace(v)
			if v == "" || slices.Contains(out, v) {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}
