package matching

import (
	"fmt"
	"slices"
	"strings"

	"marquee/internal/textutil"
	"marquee/internal/title"
)

// Kind orders predicates by strength of evidence.
type Kind int

const (
	KindExternalID Kind = iota + 1
	KindNameYear
	KindFuzzy
)

func (k Kind) String() string {
	switch k {
	case KindExternalID:
		return "external_id"
	case KindNameYear:
		return "name_year"
	case KindFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Predicate is one disjunct of "same title as the input".
type Predicate struct {
	Kind Kind
	// Source and ExternalID are set for KindExternalID.
	Source     title.Source
	ExternalID string
	// Names holds normalized name variants for KindNameYear and KindFuzzy.
	Names []string
	// Year is required for KindNameYear.
	Year int
}

func (p Predicate) String() string {
	switch p.Kind {
	case KindExternalID:
		return fmt.Sprintf("%s:%s=%s", p.Kind, p.Source, p.ExternalID)
	case KindNameYear:
		return fmt.Sprintf("%s:%d:%s", p.Kind, p.Year, strings.Join(p.Names, "|"))
	default:
		return fmt.Sprintf("%s:%s", p.Kind, strings.Join(p.Names, "|"))
	}
}

// Query joins the fuzzy names into one free-text query.
func (p Predicate) Query() string {
	return strings.Join(p.Names, " ")
}

type options struct {
	fuzzy bool
}

// Option configures KeysFor.
type Option func(*options)

// WithFuzzy appends the fuzzy text predicate.
func WithFuzzy() Option {
	return func(o *options) { o.fuzzy = true }
}

// KeysFor returns the ordered predicates identifying r.
func KeysFor(r title.ProviderResult, opts ...Option) []Predicate {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var preds []Predicate
	for _, src := range title.Sources {
		id := strings.TrimSpace(r.ExternalIDs[src])
		if id == "" {
			continue
		}
		preds = append(preds, Predicate{Kind: KindExternalID, Source: src, ExternalID: id})
	}

	names := NormalizeNames(r.NameVariants())
	if r.Year > 0 && len(names) > 0 {
		preds = append(preds, Predicate{Kind: KindNameYear, Names: names, Year: r.Year})
	}
	if o.fuzzy && len(names) > 0 {
		preds = append(preds, Predicate{Kind: KindFuzzy, Names: slices.Clone(names)})
	}
	return preds
}

// KeysForTitle returns the ordered predicates identifying t.
func KeysForTitle(t *title.Title, opts ...Option) []Predicate {
	if t == nil {
		return nil
	}
	return KeysFor(t.Result(), opts...)
}

// Exact filters out fuzzy predicates.
func Exact(preds []Predicate) []Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p.Kind != KindFuzzy {
			out = append(out, p)
		}
	}
	return out
}

// Hit reports whether candidate satisfies predicate p. Fuzzy predicates hit
// when any name token overlaps.
func (p Predicate) Hit(candidate title.ProviderResult) bool {
	switch p.Kind {
	case KindExternalID:
		return p.ExternalID != "" && strings.TrimSpace(candidate.ExternalIDs[p.Source]) == p.ExternalID
	case KindNameYear:
		if p.Year == 0 || candidate.Year != p.Year {
			return false
		}
		for _, name := range NormalizeNames(candidate.NameVariants()) {
			if slices.Contains(p.Names, name) {
				return true
			}
		}
		return false
	case KindFuzzy:
		return FuzzyScore(p, candidate) > 0
	default:
		return false
	}
}

// HitAny reports whether candidate satisfies any predicate.
func HitAny(preds []Predicate, candidate title.ProviderResult) bool {
	for _, p := range preds {
		if p.Hit(candidate) {
			return true
		}
	}
	return false
}

// Matches reports whether a and b denote the same title under rule 1 or 2.
func Matches(a, b title.ProviderResult) bool {
	return HitAny(KeysFor(a), b)
}

// SharesExternalID reports whether a and b carry the same id for any provider.
func SharesExternalID(a, b title.ProviderResult) bool {
	for _, src := range title.Sources {
		if id := strings.TrimSpace(a.ExternalIDs[src]); id != "" && strings.TrimSpace(b.ExternalIDs[src]) == id {
			return true
		}
	}
	return false
}

// FuzzyScore is the best cosine similarity between the predicate names and any
// candidate name variant. It is the in-memory stand-in for a store's text
// relevance score.
func FuzzyScore(p Predicate, candidate title.ProviderResult) float64 {
	query := textutil.NewFingerprint(p.Query())
	if query == nil {
		return 0
	}
	var best float64
	for _, name := range NormalizeNames(candidate.NameVariants()) {
		if score := textutil.CosineSimilarity(query, textutil.NewFingerprint(name)); score > best {
			best = score
		}
	}
	return best
}
