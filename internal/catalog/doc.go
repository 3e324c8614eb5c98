// Package catalog persists canonical titles in SQLite.
//
// Each title is one row in titles; locale names and provider ids live in
// side tables so the matching predicates become indexed lookups:
// title_names carries the normalized name_key used for name+year matches and
// title_external_ids enforces one title per (source, external_id). An FTS5
// table mirrors the name variants for fuzzy discovery, ranked by bm25 and
// then by year descending.
//
// Writes run through retryOnBusy so concurrent sweeps and CLI calls against
// the same database survive transient SQLITE_BUSY errors.
package catalog
