// Package dedupe clusters provider results that describe the same title.
package dedupe

import (
	"marquee/internal/matching"
	"marquee/internal/merge"
	"marquee/internal/title"
)

// Dedupe folds results into one representative per real-world title. Each
// result is compared against the representatives found so far; the first
// that matches by external id or by name and year absorbs it, with the
// representative as the authoritative side. Unmatched results become new
// representatives. Output order is first-discovery order, so the caller's
// provider order decides which data wins.
func Dedupe(results []title.ProviderResult) []title.ProviderResult {
	reps := make([]title.ProviderResult, 0, len(results))
	for _, result := range results {
		merged := false
		for i := range reps {
			if matching.Matches(reps[i], result) {
				reps[i] = merge.MergeResult(reps[i], result)
				merged = true
				break
			}
		}
		if !merged {
			reps = append(reps, merge.MergeResult(result, title.ProviderResult{}))
		}
	}
	return reps
}
