// Package csfd scrapes ČSFD (csfd.cz) search and film pages into
// providers.Provider results.
//
// Parsing is split from fetching: parseSearch and parseFilm take raw HTML
// and are exercised directly against fixtures in testdata. The main title is
// recorded under "cs"; alternate titles are keyed by the language of the
// country flag they are listed with, and titles from unknown countries are
// skipped. Ratings are the percentage average scaled to 0..10.
package csfd
