package csfd_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"marquee/internal/providers/csfd"
	"marquee/internal/title"
)

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	search, err := os.ReadFile(filepath.Join("testdata", "search.html"))
	if err != nil {
		t.Fatalf("read search fixture: %v", err)
	}
	film, err := os.ReadFile(filepath.Join("testdata", "film.html"))
	if err != nil {
		t.Fatalf("read film fixture: %v", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/hledat/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected User-Agent header")
		}
		if r.URL.Query().Get("q") != "Duna" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write(search)
	})
	mux.HandleFunc("/film/470089/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(film)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearchByName(t *testing.T) {
	server := fixtureServer(t)
	client, err := csfd.New(server.URL, csfd.WithUserAgent("marquee-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := client.SearchByName(context.Background(), "Duna")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestFetchByID(t *testing.T) {
	server := fixtureServer(t)
	client, err := csfd.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	got, err := client.FetchByID(ctx, "470089", title.MediaMovie)
	if err != nil {
		t.Fatalf("FetchByID: %v", err)
	}
	if got == nil || got.Names["cs"] != "Duna" {
		t.Fatalf("unexpected result %+v", got)
	}

	missing, err := client.FetchByID(ctx, "1", title.MediaMovie)
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown film, got %v, %v", missing, err)
	}

	if _, err := client.FetchByID(ctx, "../etc", title.MediaMovie); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := csfd.New(""); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
