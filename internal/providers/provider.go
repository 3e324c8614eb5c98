// Package providers defines the metadata provider contract and the shared
// plumbing around it: a priority-ordered registry, HTTP status
// classification, and a caching decorator.
//
// Adapters live in subpackages (tmdb, omdb, csfd). Each turns its raw payload
// into a normalized title.ProviderResult at the boundary so callers never see
// provider-specific shapes.
package providers

import (
	"context"

	"marquee/internal/title"
)

// Provider is one external source of title metadata.
//
// SearchByName returns every candidate the provider offers for a free-text
// query. FetchByID returns the record for a provider id, or nil with a nil
// error when the provider has no such record. mediaType is a hint for
// providers whose id spaces differ per type; "" means unknown.
type Provider interface {
	Source() title.Source
	SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error)
	FetchByID(ctx context.Context, id string, mediaType title.MediaType) (*title.ProviderResult, error)
}
