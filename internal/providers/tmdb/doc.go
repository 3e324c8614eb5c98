// Package tmdb adapts The Movie Database API to providers.Provider.
//
// Searches use the multi endpoint and keep only movie and TV hits. Lookups
// by id fetch details with credits and translations appended so a single
// request yields names in every translated locale, the director and cast
// lists, and runtime. Payloads are mapped onto title.ProviderResult at the
// boundary; nothing TMDB-specific leaks past this package.
package tmdb
