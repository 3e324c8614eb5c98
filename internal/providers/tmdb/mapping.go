package tmdb

import (
	"strconv"
	"strings"

	"marquee/internal/textutil"
	"marquee/internal/title"
)

type summary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	MediaType        string  `json:"media_type"`
	PosterPath       string  `json:"poster_path"`
	GenreIDs         []int   `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

type searchResponse struct {
	Page    int       `json:"page"`
	Results []summary `json:"results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type person struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type details struct {
	summary
	Genres         []genre `json:"genres"`
	Runtime        int     `json:"runtime"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	Credits        struct {
		Cast []person `json:"cast"`
		Crew []person `json:"crew"`
	} `json:"credits"`
	Translations struct {
		Translations []struct {
			ISO639 string `json:"iso_639_1"`
			Data   struct {
				Title string `json:"title"`
				Name  string `json:"name"`
			} `json:"data"`
		} `json:"translations"`
	} `json:"translations"`
}

var genres = map[int]title.Genre{
	28:    title.GenreAction,
	12:    title.GenreAdventure,
	16:    title.GenreAnimation,
	35:    title.GenreComedy,
	80:    title.GenreCrime,
	99:    title.GenreDocumentary,
	18:    title.GenreDrama,
	10751: title.GenreFamily,
	14:    title.GenreFantasy,
	36:    title.GenreHistory,
	27:    title.GenreHorror,
	10402: title.GenreMusical,
	9648:  title.GenreMystery,
	10749: title.GenreRomance,
	878:   title.GenreSciFi,
	53:    title.GenreThriller,
	10752: title.GenreWar,
	// TV-only ids.
	10759: title.GenreAction,
	10765: title.GenreSciFi,
	10768: title.GenreWar,
}

func mapGenres(ids []int) []title.Genre {
	out := make([]title.Genre, 0, len(ids))
	for _, id := range ids {
		if g, ok := genres[id]; ok {
			out = title.AppendUnique(out, g)
		}
	}
	return out
}

func (c *Client) toResult(s summary) title.ProviderResult {
	names := make(map[string]string, 2)
	if localized := firstNonEmpty(s.Title, s.Name); localized != "" {
		names[c.displayLocale()] = localized
	}
	if original := firstNonEmpty(s.OriginalTitle, s.OriginalName); original != "" && s.OriginalLanguage != "" {
		names[strings.ToLower(s.OriginalLanguage)] = original
	}

	result := title.ProviderResult{
		Names:       names,
		Year:        textutil.LeadingInt(firstNonEmpty(s.ReleaseDate, s.FirstAirDate)),
		MediaType:   mediaType(s.MediaType),
		Genres:      mapGenres(s.GenreIDs),
		ExternalIDs: map[title.Source]string{title.SourceTMDB: strconv.FormatInt(s.ID, 10)},
	}
	if s.PosterPath != "" && c.imageBaseURL != "" {
		result.Poster = c.imageBaseURL + s.PosterPath
	}
	if s.VoteCount > 0 || s.VoteAverage > 0 {
		result.Ratings = map[title.Source]float64{title.SourceTMDB: s.VoteAverage}
	}
	return result.Normalize()
}

func applyDetails(result *title.ProviderResult, d details) {
	for _, t := range d.Translations.Translations {
		name := firstNonEmpty(t.Data.Title, t.Data.Name)
		locale := strings.ToLower(strings.TrimSpace(t.ISO639))
		if name == "" || locale == "" {
			continue
		}
		if _, exists := result.Names[locale]; !exists {
			result.Names[locale] = name
		}
	}
	if len(result.Genres) == 0 {
		ids := make([]int, 0, len(d.Genres))
		for _, g := range d.Genres {
			ids = append(ids, g.ID)
		}
		result.Genres = mapGenres(ids)
	}
	result.DurationMinutes = d.Runtime
	if result.DurationMinutes == 0 && len(d.EpisodeRunTime) > 0 {
		result.DurationMinutes = d.EpisodeRunTime[0]
	}
	for _, crew := range d.Credits.Crew {
		if crew.Job == "Director" {
			result.Directors = append(result.Directors, crew.Name)
		}
	}
	for _, cast := range d.Credits.Cast {
		result.Actors = append(result.Actors, cast.Name)
	}
	*result = result.Normalize()
}

func mediaType(value string) title.MediaType {
	switch value {
	case "movie":
		return title.MediaMovie
	case "tv":
		return title.MediaSeries
	default:
		return title.MediaOther
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
