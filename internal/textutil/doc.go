// Package textutil provides text processing utilities for fingerprinting,
// similarity scoring, and list parsing.
//
// The primary use cases are:
//   - Creating token-based fingerprints from title names for fuzzy ranking
//   - Computing cosine similarity between fingerprints
//   - Splitting delimited provider fields into clean lists
//
// Tokenization lowercases text, splits on anything that is not a Unicode
// letter or digit, and filters tokens shorter than 2 runes, so accented names
// such as "Pelíšky" tokenize intact.
package textutil
