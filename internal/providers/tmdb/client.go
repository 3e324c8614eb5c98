package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marquee/internal/language"
	"marquee/internal/providers"
	"marquee/internal/title"
)

const providerName = "tmdb"

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
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

// WithImageBaseURL sets the prefix joined with poster paths.
func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		c.imageBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, lang string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: "https://image.tmdb.org/t/p/w500",
		language:     strings.TrimSpace(lang),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Source identifies the provider.
func (c *Client) Source() title.Source {
	return title.SourceTMDB
}

// SearchByName runs a multi search and maps every movie and TV hit.
func (c *Client) SearchByName(ctx context.Context, query string) ([]title.ProviderResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)

	var payload searchResponse
	if err := c.get(ctx, "/search/multi", params, &payload); err != nil {
		return nil, fmt.Errorf("tmdb multi search: %w", err)
	}
	results := make([]title.ProviderResult, 0, len(payload.Results))
	for _, hit := range payload.Results {
		if hit.MediaType != "movie" && hit.MediaType != "tv" {
			continue
		}
		results = append(results, c.toResult(hit))
	}
	return results, nil
}

// FetchByID loads movie or TV details. Series ids are looked up on the TV
// endpoint; every other media type uses the movie endpoint. A 404 yields
// (nil, nil).
func (c *Client) FetchByID(ctx context.Context, id string, mediaType title.MediaType) (*title.ProviderResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("tmdb id must not be empty")
	}
	kind := "movie"
	if mediaType == title.MediaSeries {
		kind = "tv"
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,translations")

	var payload details
	err := c.get(ctx, "/"+kind+"/"+url.PathEscape(id), params, &payload)
	if providers.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tmdb %s details: %w", kind, err)
	}
	payload.MediaType = kind
	result := c.toResult(payload.summary)
	applyDetails(&result, payload)
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &providers.HTTPStatusError{
			Provider:   providerName,
			URL:        c.baseURL + path,
			StatusCode: resp.StatusCode,
			Latency:    latency,
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// displayLocale is the locale the localized title/name fields are written in.
func (c *Client) displayLocale() string {
	if code := language.ToISO2(c.language); code != "" {
		return code
	}
	return "en"
}
