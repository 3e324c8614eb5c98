package providers

import (
	"errors"
	"fmt"
	"slices"

	"marquee/internal/title"
)

// Registry is a read-only set of providers iterated in fixed priority order.
type Registry struct {
	ordered []Provider
}

// NewRegistry validates and indexes providers. Nil providers, unknown
// sources, and duplicate sources are rejected.
func NewRegistry(list ...Provider) (*Registry, error) {
	bySource := make(map[title.Source]Provider, len(list))
	for _, p := range list {
		if p == nil {
			return nil, errors.New("provider must not be nil")
		}
		src := p.Source()
		if !title.IsKnownSource(src) {
			return nil, fmt.Errorf("unknown provider source %q", src)
		}
		if _, ok := bySource[src]; ok {
			return nil, fmt.Errorf("duplicate provider %q", src)
		}
		bySource[src] = p
	}
	ordered := make([]Provider, 0, len(bySource))
	for _, src := range title.Sources {
		if p, ok := bySource[src]; ok {
			ordered = append(ordered, p)
		}
	}
	return &Registry{ordered: ordered}, nil
}

// All returns the providers in priority order.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ordered)
}

// Sources returns the registered sources in priority order.
func (r *Registry) Sources() []title.Source {
	if r == nil {
		return nil
	}
	out := make([]title.Source, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, p.Source())
	}
	return out
}

// Len reports the number of registered providers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ordered)
}
