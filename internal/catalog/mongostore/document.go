package mongostore

import (
	"strings"
	"time"

	"marquee/internal/matching"
	"marquee/internal/title"
)

type candidateDoc struct {
	InternalID  string            `bson:"internalId,omitempty"`
	ExternalIDs map[string]string `bson:"externalIds,omitempty"`
	Display     displayDoc        `bson:"displayData"`
}

type displayDoc struct {
	Names     map[string]string `bson:"names"`
	Year      int               `bson:"year,omitempty"`
	MediaType string            `bson:"mediaType,omitempty"`
	Poster    string            `bson:"poster,omitempty"`
}

type titleDoc struct {
	ID              string             `bson:"_id"`
	Visibility      string             `bson:"visibility"`
	Names           map[string]string  `bson:"names"`
	NameKeys        []string           `bson:"nameKeys"`
	SearchText      string             `bson:"searchText"`
	Year            int                `bson:"year"`
	MediaType       string             `bson:"mediaType"`
	Poster          string             `bson:"poster"`
	DurationMinutes int                `bson:"durationMinutes"`
	Genres          []string           `bson:"genres"`
	Directors       []string           `bson:"directors"`
	Actors          []string           `bson:"actors"`
	Ratings         map[string]float64 `bson:"ratingsBySource"`
	AvgRating       float64            `bson:"avgRating"`
	ExternalIDs     map[string]string  `bson:"externalIds"`
	MergeCandidates []candidateDoc     `bson:"mergeCandidates"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func toDoc(t *title.Title) titleDoc {
	doc := titleDoc{
		ID:              t.ID,
		Visibility:      string(t.Visibility),
		Names:           t.Names,
		NameKeys:        matching.NormalizeNames(t.NameVariants()),
		Year:            t.Year,
		MediaType:       string(t.MediaType),
		Poster:          t.Poster,
		DurationMinutes: t.DurationMinutes,
		Genres:          make([]string, 0, len(t.Genres)),
		Directors:       t.Directors,
		Actors:          t.Actors,
		Ratings:         make(map[string]float64, len(t.Ratings)),
		AvgRating:       t.AvgRating,
		ExternalIDs:     make(map[string]string, len(t.ExternalIDs)),
		MergeCandidates: make([]candidateDoc, 0, len(t.MergeCandidates)),
		CreatedAt:       t.CreatedAt.UTC(),
		UpdatedAt:       t.UpdatedAt.UTC(),
	}
	doc.SearchText = strings.Join(t.NameVariants(), " | ")
	for _, g := range t.Genres {
		doc.Genres = append(doc.Genres, string(g))
	}
	for src, v := range t.Ratings {
		doc.Ratings[string(src)] = v
	}
	for src, id := range t.ExternalIDs {
		doc.ExternalIDs[string(src)] = id
	}
	for _, c := range t.MergeCandidates {
		doc.MergeCandidates = append(doc.MergeCandidates, toCandidateDoc(c))
	}
	return doc
}

func toCandidateDoc(c title.MergeCandidate) candidateDoc {
	out := candidateDoc{
		InternalID: c.InternalID,
		Display: displayDoc{
			Names:     c.Display.Names,
			Year:      c.Display.Year,
			MediaType: string(c.Display.MediaType),
			Poster:    c.Display.Poster,
		},
	}
	if len(c.ExternalIDs) > 0 {
		out.ExternalIDs = make(map[string]string, len(c.ExternalIDs))
		for src, id := range c.ExternalIDs {
			out.ExternalIDs[string(src)] = id
		}
	}
	return out
}

func (d titleDoc) toTitle() *title.Title {
	t := &title.Title{
		ID:              d.ID,
		Visibility:      title.Visibility(d.Visibility),
		Names:           d.Names,
		Year:            d.Year,
		MediaType:       title.MediaType(d.MediaType),
		Poster:          d.Poster,
		DurationMinutes: d.DurationMinutes,
		Genres:          make([]title.Genre, 0, len(d.Genres)),
		Directors:       d.Directors,
		Actors:          d.Actors,
		Ratings:         make(map[title.Source]float64, len(d.Ratings)),
		AvgRating:       d.AvgRating,
		ExternalIDs:     make(map[title.Source]string, len(d.ExternalIDs)),
		MergeCandidates: make([]title.MergeCandidate, 0, len(d.MergeCandidates)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if t.Names == nil {
		t.Names = map[string]string{}
	}
	for _, g := range d.Genres {
		t.Genres = append(t.Genres, title.Genre(g))
	}
	for src, v := range d.Ratings {
		t.Ratings[title.Source(src)] = v
	}
	for src, id := range d.ExternalIDs {
		t.ExternalIDs[title.Source(src)] = id
	}
	for _, c := range d.MergeCandidates {
		mc := title.MergeCandidate{
			InternalID: c.InternalID,
			Display: title.DisplayData{
				Names:     c.Display.Names,
				Year:      c.Display.Year,
				MediaType: title.MediaType(c.Display.MediaType),
				Poster:    c.Display.Poster,
			},
		}
		if len(c.ExternalIDs) > 0 {
			mc.ExternalIDs = make(map[title.Source]string, len(c.ExternalIDs))
			for src, id := range c.ExternalIDs {
				mc.ExternalIDs[title.Source(src)] = id
			}
		}
		t.MergeCandidates = append(t.MergeCandidates, mc)
	}
	return t
}
