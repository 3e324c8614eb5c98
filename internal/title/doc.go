// Package title defines the canonical catalog record and the ephemeral shapes
// that flow through reconciliation.
//
// A Title is the persisted, deduplicated record for one real-world movie or
// series. A ProviderResult is the raw yield of one provider call, shaped like a
// Title minus identity, visibility, timestamps, and merge candidates. A
// MergeCandidate is a frozen suggestion attached to a placeholder Title.
//
// Set-valued fields are stored as deduplicated ordered slices. Map-valued
// fields are never nil once a record has passed through Normalize, so callers
// can range and index without guarding.
package title
