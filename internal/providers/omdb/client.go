// Package omdb adapts the OMDb API, which serves IMDb ids and ratings, to
// providers.Provider.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marquee/internal/providers"
	"marquee/internal/textutil"
	"marquee/internal/title"
)

const providerName = "omdb"

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ providers.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source identifies the provider. OMDb records are keyed by IMDb id.
func (c *Client) Source() title.Source {
	return title.SourceIMDb
}

// SearchByName performs an exact title lookup. OMDb returns at most one
// record for a t= query.
func (c *Client) SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("t", query)
	record, err := c.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("omdb title search: %w", err)
	}
	if record == nil {
		return []title.ProviderResult{}, nil
	}
	return []title.ProviderResult{*record}, nil
}

// FetchByID looks a record up by IMDb id. The media type is not needed.
func (c *Client) FetchByID(ctx context.Context, id string, _ title.MediaType) (*title.ProviderResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	params := url.Values{}
	params.Set("i", id)
	record, err := c.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("omdb id lookup: %w", err)
	}
	return record, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*title.ProviderResult, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &providers.HTTPStatusError{
			Provider:   providerName,
			URL:        c.baseURL,
			StatusCode: resp.StatusCode,
			Latency:    latency,
		}
	}

	var payload record
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	if strings.EqualFold(payload.Response, "False") {
		return nil, nil
	}
	result := payload.toResult()
	return &result, nil
}

type record struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

var genres = map[string]title.Genre{
	"Action":      title.GenreAction,
	"Adventure":   title.GenreAdventure,
	"Animation":   title.GenreAnimation,
	"Biography":   title.GenreBiography,
	"Comedy":      title.GenreComedy,
	"Crime":       title.GenreCrime,
	"Documentary": title.GenreDocumentary,
	"Drama":       title.GenreDrama,
	"Family":      title.GenreFamily,
	"Fantasy":     title.GenreFantasy,
	"History":     title.GenreHistory,
	"Horror":      title.GenreHorror,
	"Music":       title.GenreMusical,
	"Musical":     title.GenreMusical,
	"Mystery":     title.GenreMystery,
	"Romance":     title.GenreRomance,
	"Sci-Fi":      title.GenreSciFi,
	"Sport":       title.GenreSport,
	"Thriller":    title.GenreThriller,
	"War":         title.GenreWar,
}

func (r record) toResult() title.ProviderResult {
	result := title.ProviderResult{
		Names:           map[string]string{"en": present(r.Title)},
		Year:            textutil.LeadingInt(r.Year),
		MediaType:       title.MediaMovie,
		Poster:          present(r.Poster),
		DurationMinutes: textutil.LeadingInt(r.Runtime),
		Directors:       textutil.SplitList(r.Director, ","),
		Actors:          textutil.SplitList(r.Actors, ","),
		ExternalIDs:     map[title.Source]string{title.SourceIMDb: present(r.IMDbID)},
	}
	if r.Type == "series" {
		result.MediaType = title.MediaSeries
	}
	for _, name := range textutil.SplitList(r.Genre, ",") {
		if g, ok := genres[name]; ok {
			result.Genres = append(result.Genres, g)
		}
	}
	if rating, err := strconv.ParseFloat(present(r.IMDbRating), 64); err == nil {
		result.Ratings = map[title.Source]float64{title.SourceIMDb: rating}
	}
	return result.Normalize()
}

// present maps OMDb's "N/A" marker to the empty string.
func present(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}
