package mongostore

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"marquee/internal/matching"
	"marquee/internal/title"
)

// predicateFilter translates one predicate into a query document scoped to
// visibility. The second return is false for predicates that cannot select
// anything.
func predicateFilter(p matching.Predicate, visibility title.Visibility) (bson.M, bool) {
	switch p.Kind {
	case matching.KindExternalID:
		if p.ExternalID == "" {
			return nil, false
		}
		filter := bson.M{"visibility": string(visibility)}
		filter["externalIds."+string(p.Source)] = p.ExternalID
		return filter, true
	case matching.KindNameYear:
		if p.Year == 0 || len(p.Names) == 0 {
			return nil, false
		}
		return bson.M{
			"visibility": string(visibility),
			"year":       p.Year,
			"nameKeys":   bson.M{"$in": p.Names},
		}, true
	case matching.KindFuzzy:
		query := textSearch(p.Names)
		if query == "" {
			return nil, false
		}
		return bson.M{
			"visibility": string(visibility),
			"$text":      bson.M{"$search": query},
		}, true
	}
	return nil, false
}

// textSearch builds a $text search string with every name variant quoted as
// a phrase alternative.
func textSearch(names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ReplaceAll(name, `"`, " "))
		if name == "" {
			continue
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}

// staleFilter mirrors the SQLite staleness rule.
func staleFilter(olderThan time.Time) bson.M {
	or := bson.A{
		bson.M{"poster": bson.M{"$in": bson.A{"", nil}}},
		bson.M{"year": bson.M{"$in": bson.A{0, nil}}},
		bson.M{"durationMinutes": bson.M{"$in": bson.A{0, nil}}},
		bson.M{"genres": bson.M{"$size": 0}},
		bson.M{"directors": bson.M{"$size": 0}},
		bson.M{"actors": bson.M{"$size": 0}},
		bson.M{"updatedAt": bson.M{"$lt": olderThan.UTC()}},
	}
	for _, src := range title.Sources {
		or = append(or,
			bson.M{"ratingsBySource." + string(src): bson.M{"$exists": false}},
			bson.M{"externalIds." + string(src): bson.M{"$exists": false}},
		)
	}
	return bson.M{
		"visibility": string(title.VisibilityPublic),
		"$or":        or,
	}
}
