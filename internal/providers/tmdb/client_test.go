package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"marquee/internal/providers"
	"marquee/internal/providers/tmdb"
	"marquee/internal/title"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := tmdb.New("key", " ", "en-US"); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchByNameKeepsMoviesAndShows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Errorf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("query") != "Dune" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("query"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":438631,"media_type":"movie","title":"Dune","original_title":"Dune","original_language":"en","release_date":"2021-09-15","poster_path":"/d5NXSklXo0qyIYkgV94XAgMIckC.jpg","genre_ids":[878,12],"vote_average":7.8,"vote_count":12000},
			{"id":90228,"media_type":"tv","name":"Dune: Prophecy","original_name":"Dune: Prophecy","original_language":"en","first_air_date":"2024-11-17","genre_ids":[10765,18],"vote_average":7.2,"vote_count":300},
			{"id":1,"media_type":"person","name":"Frank Herbert"}
		]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US", tmdb.WithImageBaseURL("https://img.example/w500/"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	results, err := client.SearchByName(context.Background(), "Dune")
	if err != nil {
		t.Fatalf("SearchByName returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected person hit to be dropped, got %d results", len(results))
	}
	movie := results[0]
	if movie.Names["en"] != "Dune" || movie.Year != 2021 || movie.MediaType != title.MediaMovie {
		t.Fatalf("unexpected movie mapping: %+v", movie)
	}
	if movie.Poster != "https://img.example/w500/d5NXSklXo0qyIYkgV94XAgMIckC.jpg" {
		t.Fatalf("unexpected poster %q", movie.Poster)
	}
	if !slices.Equal(movie.Genres, []title.Genre{title.GenreSciFi, title.GenreAdventure}) {
		t.Fatalf("unexpected genres %v", movie.Genres)
	}
	if movie.Ratings[title.SourceTMDB] != 7.8 || movie.ExternalIDs[title.SourceTMDB] != "438631" {
		t.Fatalf("unexpected rating or id: %+v", movie)
	}
	if results[1].MediaType != title.MediaSeries || results[1].Year != 2024 {
		t.Fatalf("unexpected show mapping: %+v", results[1])
	}
}

func TestFetchByIDMapsDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/438631" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,translations" {
			t.Errorf("unexpected append_to_response %q", got)
		}
		_, _ = w.Write([]byte(`{
			"id":438631,"title":"Dune","original_title":"Dune","original_language":"en",
			"release_date":"2021-09-15","runtime":155,"vote_average":7.8,"vote_count":12000,
			"genres":[{"id":878,"name":"Science Fiction"},{"id":12,"name":"Adventure"}],
			"credits":{
				"cast":[{"name":"Timothée Chalamet"},{"name":"Rebecca Ferguson"}],
				"crew":[{"name":"Denis Villeneuve","job":"Director"},{"name":"Hans Zimmer","job":"Original Music Composer"}]
			},
			"translations":{"translations":[
				{"iso_639_1":"cs","data":{"title":"Duna"}},
				{"iso_639_1":"de","data":{"title":""}}
			]}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	result, err := client.FetchByID(context.Background(), "438631", title.MediaMovie)
	if err != nil {
		t.Fatalf("FetchByID returned error: %v", err)
	}
	if result == nil {
		t.Fatal("expected result")
	}
	if result.Names["cs"] != "Duna" || result.Names["en"] != "Dune" {
		t.Fatalf("unexpected names %v", result.Names)
	}
	if _, ok := result.Names["de"]; ok {
		t.Fatalf("expected empty translation to be skipped: %v", result.Names)
	}
	if result.DurationMinutes != 155 {
		t.Fatalf("unexpected duration %d", result.DurationMinutes)
	}
	if !slices.Equal(result.Directors, []string{"Denis Villeneuve"}) {
		t.Fatalf("unexpected directors %v", result.Directors)
	}
	if !slices.Equal(result.Actors, []string{"Timothée Chalamet", "Rebecca Ferguson"}) {
		t.Fatalf("unexpected actors %v", result.Actors)
	}
	if !slices.Equal(result.Genres, []title.Genre{title.GenreSciFi, title.GenreAdventure}) {
		t.Fatalf("unexpected genres %v", result.Genres)
	}
	if result.AvgRating != 7.8 {
		t.Fatalf("unexpected avg rating %v", result.AvgRating)
	}
}

func TestFetchByIDUsesTVEndpointForSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1399" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","episode_run_time":[60]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	result, err := client.FetchByID(context.Background(), "1399", title.MediaSeries)
	if err != nil {
		t.Fatalf("FetchByID returned error: %v", err)
	}
	if result.MediaType != title.MediaSeries || result.DurationMinutes != 60 || result.Year != 2011 {
		t.Fatalf("unexpected series mapping: %+v", result)
	}
}

func TestFetchByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	result, err := client.FetchByID(context.Background(), "0", title.MediaMovie)
	if err != nil || result != nil {
		t.Fatalf("expected (nil, nil) for 404, got %v, %v", result, err)
	}
}

func TestSearchByNameHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchByName(context.Background(), "fail")
	if err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
	if !providers.IsTransient(err) {
		t.Fatalf("expected transient classification, got %v", err)
	}
}

func TestSearchByNameEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchByName(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}
