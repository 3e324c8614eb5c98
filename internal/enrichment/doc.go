// Package enrichment orchestrates provider fan-out, merging, and persistence
// for catalog titles.
//
// A Service owns three maintenance operations. RefreshTitleMetadata pulls
// every provider record a public title is linked to and merges them into the
// stored row in fixed provider priority order. UpdatePlaceholderMergeCandidates
// proposes catalog titles and provider records a placeholder may resolve to,
// writing nothing but the candidate list. RunEnrichment sweeps stale public
// titles and then placeholders, isolating each item's failure.
//
// Provider calls within one operation run concurrently and are joined after
// every call settles; a failing provider contributes no data and never
// cancels its siblings. Errors surfaced to callers carry one of the markers
// in errors.go so they can be classified with errors.Is.
package enrichment
