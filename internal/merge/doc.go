// Package merge folds provider results into canonical titles.
//
// Merge is deterministic and never fails. The existing side is authoritative:
// scalars and map entries already present are kept, set fields keep their
// existing order with new values appended, and the derived average rating is
// recomputed from the merged ratings. Merging is therefore not commutative,
// and merging data the existing side already holds changes nothing but the
// update timestamp.
package merge
