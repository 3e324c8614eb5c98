package csfd

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marquee/internal/language"
	"marquee/internal/textutil"
	"marquee/internal/title"
)

var filmHref = regexp.MustCompile(`/film/(\d+)`)

var genres = map[string]title.Genre{
	"Akční":       title.GenreAction,
	"Dobrodružný": title.GenreAdventure,
	"Animovaný":   title.GenreAnimation,
	"Životopisný": title.GenreBiography,
	"Komedie":     title.GenreComedy,
	"Krimi":       title.GenreCrime,
	"Dokument":    title.GenreDocumentary,
	"Drama":       title.GenreDrama,
	"Rodinný":     title.GenreFamily,
	"Fantasy":     title.GenreFantasy,
	"Pohádka":     title.GenreFairytale,
	"Historický":  title.GenreHistory,
	"Horor":       title.GenreHorror,
	"Hudební":     title.GenreMusical,
	"Muzikál":     title.GenreMusical,
	"Mysteriózní": title.GenreMystery,
	"Romantický":  title.GenreRomance,
	"Sci-Fi":      title.GenreSciFi,
	"Sportovní":   title.GenreSport,
	"Thriller":    title.GenreThriller,
	"Válečný":     title.GenreWar,
}

func parseSearch(html []byte) ([]title.ProviderResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	var results []title.ProviderResult
	sections := []struct {
		selector  string
		mediaType title.MediaType
	}{
		{"section.main-movies article", title.MediaMovie},
		{"section.main-tvseries article", title.MediaSeries},
	}
	for _, section := range sections {
		doc.Find(section.selector).Each(func(_ int, s *goquery.Selection) {
			link := s.Find("a.film-title-name").First()
			href, _ := link.Attr("href")
			id := filmID(href)
			name := normSpace(link.Text())
			if id == "" || name == "" {
				return
			}
			result := title.ProviderResult{
				Names:       map[string]string{"cs": name},
				Year:        yearFrom(s.Find(".film-title-info .info").First().Text()),
				MediaType:   section.mediaType,
				ExternalIDs: map[title.Source]string{title.SourceCSFD: id},
			}
			if src, ok := s.Find("figure img").First().Attr("src"); ok {
				result.Poster = absoluteURL(src)
			}
			results = append(results, result.Normalize())
		})
	}
	if results == nil {
		results = []title.ProviderResult{}
	}
	return results, nil
}

func parseFilm(html []byte, id string) (title.ProviderResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return title.ProviderResult{}, err
	}

	header := doc.Find("div.film-header-name").First()
	result := title.ProviderResult{
		Names:       map[string]string{"cs": normSpace(header.Find("h1").First().Text())},
		MediaType:   title.MediaMovie,
		ExternalIDs: map[title.Source]string{title.SourceCSFD: id},
	}
	if strings.Contains(strings.ToLower(header.Find(".type").Text()), "seriál") {
		result.MediaType = title.MediaSeries
	}

	doc.Find("ul.film-names li").Each(func(_ int, s *goquery.Selection) {
		country, _ := s.Find("img.flag").First().Attr("title")
		locale := language.FromCountry(country)
		name := normSpace(s.Clone().Children().Remove().End().Text())
		if locale == "" || name == "" {
			return
		}
		if _, exists := result.Names[locale]; !exists {
			result.Names[locale] = name
		}
	})

	for _, raw := range textutil.SplitList(doc.Find("div.genres").First().Text(), "/") {
		if g, ok := genres[raw]; ok {
			result.Genres = append(result.Genres, g)
		}
	}

	for _, part := range textutil.SplitList(doc.Find("div.origin").First().Text(), ",") {
		n := textutil.LeadingInt(strings.TrimLeft(part, "("))
		switch {
		case n == 0:
		case strings.HasSuffix(part, "min"):
			result.DurationMinutes = n
		case result.Year == 0 && n >= 1870:
			result.Year = n
		}
	}

	rating := strings.TrimSpace(doc.Find("div.film-rating-average").First().Text())
	if strings.HasSuffix(rating, "%") {
		if pct := textutil.LeadingInt(rating); pct > 0 || strings.HasPrefix(rating, "0") {
			result.Ratings = map[title.Source]float64{title.SourceCSFD: float64(pct) / 10}
		}
	}

	if src, ok := doc.Find("div.film-posters img").First().Attr("src"); ok {
		result.Poster = absoluteURL(src)
	}

	doc.Find("div.creators > div").Each(func(_ int, s *goquery.Selection) {
		var dst *[]string
		switch normSpace(s.Find("h4").First().Text()) {
		case "Režie:":
			dst = &result.Directors
		case "Hrají:":
			dst = &result.Actors
		default:
			return
		}
		s.Find("a").Each(func(_ int, a *goquery.Selection) {
			if href, _ := a.Attr("href"); strings.Contains(href, "/tvurce/") {
				*dst = append(*dst, normSpace(a.Text()))
			}
		})
	})

	return result.Normalize(), nil
}

func filmID(href string) string {
	m := filmHref.FindStringSubmatch(href)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// yearFrom reads "(2021)" or "(2016–2019)" as the first year.
func yearFrom(text string) int {
	return textutil.LeadingInt(strings.TrimLeft(strings.TrimSpace(text), "("))
}

func absoluteURL(src string) string {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	default:
		return ""
	}
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
