package providers

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	gocache "github.com/patrickmn/go-cache"

	"marquee/internal/matching"
	"marquee/internal/title"
)

// CachedProvider wraps a Provider with a bounded expiring LRU for searches and
// a TTL cache for lookups by id. Errors are never cached.
type CachedProvider struct {
	inner    Provider
	searches *expirable.LRU[string, []title.ProviderResult]
	fetches  *gocache.Cache
}

var _ Provider = (*CachedProvider)(nil)

// NewCached wraps inner. A non-positive size or TTL disables the matching
// cache.
func NewCached(inner Provider, size int, searchTTL, fetchTTL time.Duration) (*CachedProvider, error) {
	if inner == nil {
		return nil, fmt.Errorf("cached provider: nil provider")
	}
	c := &CachedProvider{inner: inner}
	if size > 0 && searchTTL > 0 {
		c.searches = expirable.NewLRU[string, []title.ProviderResult](size, nil, searchTTL)
	}
	if fetchTTL > 0 {
		c.fetches = gocache.New(fetchTTL, 2*fetchTTL)
	}
	return c, nil
}

// Source returns the wrapped provider's source.
func (c *CachedProvider) Source() title.Source {
	return c.inner.Source()
}

// SearchByName serves repeated queries from the LRU. Queries that differ
// only in case or spacing share an entry.
func (c *CachedProvider) SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error) {
	if c.searches == nil {
		return c.inner.SearchByName(ctx, query)
	}
	key := matching.NormalizeName(query)
	if cached, ok := c.searches.Get(key); ok {
		return slices.Clone(cached), nil
	}
	results, err := c.inner.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	c.searches.Add(key, slices.Clone(results))
	return results, nil
}

// FetchByID serves repeated lookups from the TTL cache. Missing records are
// not cached.
func (c *CachedProvider) FetchByID(ctx context.Context, id string, mediaType title.MediaType) (*title.ProviderResult, error) {
	if c.fetches == nil {
		return c.inner.FetchByID(ctx, id, mediaType)
	}
	key := string(mediaType) + "|" + id
	if cached, ok := c.fetches.Get(key); ok {
		result := cached.(title.ProviderResult)
		return &result, nil
	}
	result, err := c.inner.FetchByID(ctx, id, mediaType)
	if err != nil || result == nil {
		return result, err
	}
	c.fetches.SetDefault(key, *result)
	return result, nil
}
