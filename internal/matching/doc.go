// Package matching turns title-shaped records into the predicates that decide
// whether two records denote the same real-world title.
//
// Predicates come in strict priority order:
//
//  1. External-id equality, one predicate per provider id present.
//  2. Name+year equality over normalized name variants, emitted only when the
//     input has a year.
//  3. Fuzzy text search over all name variants. Only emitted on request
//     (WithFuzzy) and only ever used to surface candidates from the catalog.
//     FuzzyScore ranks those candidates by token cosine similarity so every
//     store backend yields the same order.
//
// Matches compares two ephemeral records in memory using rules 1 and 2 only.
// External ids are compared after trimming surrounding whitespace.
// NormalizeName is the single normalization applied to names by this package
// and by every catalog store.
package matching
