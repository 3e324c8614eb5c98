package title

// Visibility is the two-state lifecycle of a catalog title.
type Visibility string

const (
	// VisibilityPublic marks a catalog-confirmed title.
	VisibilityPublic Visibility = "public"
	// VisibilityPlaceholder marks a user-entered, unresolved stub.
	VisibilityPlaceholder Visibility = "placeholder"
)

// MediaType classifies a title.
type MediaType string

const (
	MediaMovie  MediaType = "movie"
	MediaSeries MediaType = "series"
	MediaOther  MediaType = "other"
)

// ParseMediaType maps free-form input to a MediaType. Unknown values yield "".
func ParseMediaType(value string) MediaType {
	switch MediaType(value) {
	case MediaMovie, MediaSeries, MediaOther:
		return MediaType(value)
	}
	switch value {
	case "tv", "show", "serial":
		return MediaSeries
	case "film":
		return MediaMovie
	}
	return ""
}

// Source identifies an external metadata provider.
type Source string

const (
	SourceTMDB Source = "tmdb"
	SourceIMDb Source = "imdb"
	SourceCSFD Source = "csfd"
)

// Sources lists every provider in fixed merge priority order.
var Sources = []Source{SourceTMDB, SourceIMDb, SourceCSFD}

// IsKnownSource reports whether s is one of Sources.
func IsKnownSource(s Source) bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// Genre is a member of the closed genre vocabulary.
type Genre string

const (
	GenreAction      Genre = "action"
	GenreAdventure   Genre = "adventure"
	GenreBiography   Genre = "biography"
	GenreComedy      Genre = "comedy"
	GenreDrama       Genre = "drama"
	GenreFantasy     Genre = "fantasy"
	GenreFairytale   Genre = "fairytale"
	GenreHorror      Genre = "horror"
	GenreHistory     Genre = "history"
	GenreSciFi       Genre = "sci_fi"
	GenreSport       Genre = "sport"
	GenreRomance     Genre = "romance"
	GenreThriller    Genre = "thriller"
	GenreAnimation   Genre = "animation"
	GenreDocumentary Genre = "documentary"
	GenreCrime       Genre = "crime"
	GenreMystery     Genre = "mystery"
	GenreFamily      Genre = "family"
	GenreMusical     Genre = "musical"
	GenreWar         Genre = "war"
)

var knownGenres = map[Genre]struct{}{
	GenreAction: {}, GenreAdventure: {}, GenreBiography: {}, GenreComedy: {},
	GenreDrama: {}, GenreFantasy: {}, GenreFairytale: {}, GenreHorror: {},
	GenreHistory: {}, GenreSciFi: {}, GenreSport: {}, GenreRomance: {},
	GenreThriller: {}, GenreAnimation: {}, GenreDocumentary: {}, GenreCrime: {},
	GenreMystery: {}, GenreFamily: {}, GenreMusical: {}, GenreWar: {},
}

// IsKnownGenre reports whether g belongs to the genre vocabulary.
func IsKnownGenre(g Genre) bool {
	_, ok := knownGenres[g]
	return ok
}

const (
	// MaxDirectors bounds the directors set.
	MaxDirectors = 5
	// MaxActors bounds the actors set.
	MaxActors = 10
)
