package testsupport

import (
	"context"
	"sync"

	"marquee/internal/providers"
	"marquee/internal/title"
)

// FakeProvider is an in-memory providers.Provider. Searches are keyed by the
// exact query string and lookups by external id.
type FakeProvider struct {
	Src       title.Source
	Searches  map[string][]title.ProviderResult
	Records   map[string]title.ProviderResult
	SearchErr error
	FetchErr  error

	mu          sync.Mutex
	searchCalls []string
	fetchCalls  []string
}

var _ providers.Provider = (*FakeProvider)(nil)

// NewFakeProvider returns an empty fake for src.
func NewFakeProvider(src title.Source) *FakeProvider {
	return &FakeProvider{
		Src:      src,
		Searches: make(map[string][]title.ProviderResult),
		Records:  make(map[string]title.ProviderResult),
	}
}

// Source returns the configured source.
func (f *FakeProvider) Source() title.Source {
	return f.Src
}

// SearchByName returns the canned results for query.
func (f *FakeProvider) SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]title.ProviderResult(nil), f.Searches[query]...), nil
}

// FetchByID returns the canned record for id, or nil when none exists.
func (f *FakeProvider) FetchByID(ctx context.Context, id string, _ title.MediaType) (*title.ProviderResult, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, id)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	record, ok := f.Records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// SearchCalls returns the queries received so far.
func (f *FakeProvider) SearchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}

// FetchCalls returns the ids requested so far.
func (f *FakeProvider) FetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetchCalls...)
}
