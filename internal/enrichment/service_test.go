package enrichment_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"marquee/internal/catalog"
	"marquee/internal/enrichment"
	"marquee/internal/matching"
	"marquee/internal/providers"
	"marquee/internal/testsupport"
	"marquee/internal/title"
)

// faultyStore fails writes for one title id and counts writes.
type faultyStore struct {
	enrichment.Store
	failUpsertID    string
	upserts         atomic.Int32
	candidateWrites atomic.Int32
}

func (f *faultyStore) UpsertByMatch(ctx context.Context, preds []matching.Predicate, fields *title.Title) (*title.Title, error) {
	f.upserts.Add(1)
	if fields != nil && f.failUpsertID != "" && fields.ID == f.failUpsertID {
		return nil, errors.New("disk full")
	}
	return f.Store.UpsertByMatch(ctx, preds, fields)
}

func (f *faultyStore) SetMergeCandidates(ctx context.Context, id string, candidates []title.MergeCandidate) error {
	f.candidateWrites.Add(1)
	return f.Store.SetMergeCandidates(ctx, id, candidates)
}

type fixture struct {
	store *catalog.Store
	tmdb  *testsupport.FakeProvider
	imdb  *testsupport.FakeProvider
	csfd  *testsupport.FakeProvider
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return fixture{
		store: testsupport.MustOpenStore(t, cfg),
		tmdb:  testsupport.NewFakeProvider(title.SourceTMDB),
		imdb:  testsupport.NewFakeProvider(title.SourceIMDb),
		csfd:  testsupport.NewFakeProvider(title.SourceCSFD),
	}
}

func (f fixture) service(t *testing.T, store enrichment.Store, opts ...enrichment.Option) *enrichment.Service {
	t.Helper()
	if store == nil {
		store = f.store
	}
	registry, err := providers.NewRegistry(f.tmdb, f.imdb, f.csfd)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	svc, err := enrichment.New(store, registry, opts...)
	if err != nil {
		t.Fatalf("enrichment.New: %v", err)
	}
	return svc
}

func (f fixture) mustGet(t *testing.T, id string) *title.Title {
	t.Helper()
	got, err := f.store.GetByID(context.Background(), id)
	if err != nil || got == nil {
		t.Fatalf("GetByID(%s): %v, %v", id, got, err)
	}
	return got
}

func dune(ids map[title.Source]string) title.ProviderResult {
	return title.ProviderResult{
		Names:       map[string]string{"en": "Dune"},
		Year:        2021,
		MediaType:   title.MediaMovie,
		ExternalIDs: ids,
	}
}

func TestNewRequiresStoreAndProviders(t *testing.T) {
	f := newFixture(t)
	registry, _ := providers.NewRegistry(f.tmdb)
	if _, err := enrichment.New(nil, registry); err == nil {
		t.Fatal("expected error without store")
	}
	empty, _ := providers.NewRegistry()
	if _, err := enrichment.New(f.store, empty); err == nil {
		t.Fatal("expected error without providers")
	}
}

func TestRefreshMergesSuccessfulProvidersWhenOneFails(t *testing.T) {
	f := newFixture(t)
	saved := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{
		title.SourceTMDB: "438631",
		title.SourceIMDb: "tt1160419",
	}), title.VisibilityPublic)

	f.tmdb.FetchErr = errors.New("tmdb unavailable")
	f.imdb.Records["tt1160419"] = title.ProviderResult{
		Names:       map[string]string{"en": "Dune: Part One"},
		Poster:      "https://img.example/dune.jpg",
		Directors:   []string{"Denis Villeneuve"},
		Ratings:     map[title.Source]float64{title.SourceIMDb: 8.0},
		ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt1160419"},
	}

	svc := f.service(t, nil)
	if err := svc.RefreshTitleMetadata(context.Background(), saved.ID); err != nil {
		t.Fatalf("RefreshTitleMetadata: %v", err)
	}

	got := f.mustGet(t, saved.ID)
	if got.Ratings[title.SourceIMDb] != 8.0 || got.AvgRating != 8.0 {
		t.Fatalf("expected imdb rating merged, got %v avg %v", got.Ratings, got.AvgRating)
	}
	if got.Poster != "https://img.example/dune.jpg" {
		t.Fatalf("expected poster from imdb, got %q", got.Poster)
	}
	if got.Names["en"] != "Dune" {
		t.Fatalf("expected existing name to win, got %q", got.Names["en"])
	}
	if len(f.tmdb.FetchCalls()) != 1 || len(f.csfd.FetchCalls()) != 0 {
		t.Fatalf("expected fetch only for linked providers: tmdb=%v csfd=%v", f.tmdb.FetchCalls(), f.csfd.FetchCalls())
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := newFixture(t)
	saved := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceIMDb: "tt1160419"}), title.VisibilityPublic)
	f.imdb.Records["tt1160419"] = title.ProviderResult{
		Names:       map[string]string{"en": "Dune"},
		Actors:      []string{"Zendaya"},
		Ratings:     map[title.Source]float64{title.SourceIMDb: 8.0},
		ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt1160419"},
	}
	svc := f.service(t, nil)
	ctx := context.Background()
	for range 2 {
		if err := svc.RefreshTitleMetadata(ctx, saved.ID); err != nil {
			t.Fatalf("RefreshTitleMetadata: %v", err)
		}
	}
	got := f.mustGet(t, saved.ID)
	if len(got.Actors) != 1 || len(got.Ratings) != 1 {
		t.Fatalf("expected repeated refresh to be stable, got %+v", got)
	}
}

func TestRefreshPlaceholderIsNoop(t *testing.T) {
	f := newFixture(t)
	placeholder := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceIMDb: "tt1160419"}), title.VisibilityPlaceholder)
	store := &faultyStore{Store: f.store}
	svc := f.service(t, store)

	if err := svc.RefreshTitleMetadata(context.Background(), placeholder.ID); err != nil {
		t.Fatalf("RefreshTitleMetadata: %v", err)
	}
	if store.upserts.Load() != 0 {
		t.Fatalf("expected no store write, got %d", store.upserts.Load())
	}
	if calls := f.imdb.FetchCalls(); len(calls) != 0 {
		t.Fatalf("expected no provider calls, got %v", calls)
	}
}

func TestSingleTitleOperationsReportNotFound(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t, nil)
	ctx := context.Background()

	if err := svc.RefreshTitleMetadata(ctx, "missing"); !errors.Is(err, enrichment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from refresh, got %v", err)
	}
	if err := svc.UpdatePlaceholderMergeCandidates(ctx, "missing"); !errors.Is(err, enrichment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from candidates, got %v", err)
	}
	if _, err := svc.Refresh(ctx, "missing"); !errors.Is(err, enrichment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Refresh, got %v", err)
	}
	if err := svc.RefreshTitleMetadata(ctx, " "); !errors.Is(err, enrichment.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank id, got %v", err)
	}
}

func TestRefreshPersistenceFailureIsTyped(t *testing.T) {
	f := newFixture(t)
	saved := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceIMDb: "tt1160419"}), title.VisibilityPublic)
	svc := f.service(t, &faultyStore{Store: f.store, failUpsertID: saved.ID})

	err := svc.RefreshTitleMetadata(context.Background(), saved.ID)
	if !errors.Is(err, enrichment.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestUpdatePlaceholderMergeCandidates(t *testing.T) {
	f := newFixture(t)
	public := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceTMDB: "438631"}), title.VisibilityPublic)
	placeholder := testsupport.MustUpsert(t, f.store, title.ProviderResult{
		Names: map[string]string{"en": "Dune"},
		Year:  2021,
	}, title.VisibilityPlaceholder)

	f.tmdb.Searches["Dune"] = []title.ProviderResult{
		dune(map[title.Source]string{title.SourceTMDB: "438631"}),
		{
			Names:       map[string]string{"en": "Dune"},
			Year:        1984,
			ExternalIDs: map[title.Source]string{title.SourceTMDB: "841"},
		},
	}
	f.imdb.Searches["Dune"] = []title.ProviderResult{dune(map[title.Source]string{title.SourceIMDb: "tt1160419"})}
	f.csfd.SearchErr = errors.New("csfd blocked")

	store := &faultyStore{Store: f.store}
	svc := f.service(t, store)
	if err := svc.UpdatePlaceholderMergeCandidates(context.Background(), placeholder.ID); err != nil {
		t.Fatalf("UpdatePlaceholderMergeCandidates: %v", err)
	}
	if store.upserts.Load() != 0 || store.candidateWrites.Load() != 1 {
		t.Fatalf("expected a single candidate write, got upserts=%d candidates=%d", store.upserts.Load(), store.candidateWrites.Load())
	}

	got := f.mustGet(t, placeholder.ID)
	if len(got.MergeCandidates) != 2 {
		t.Fatalf("expected internal + one external candidate, got %+v", got.MergeCandidates)
	}
	internal := got.MergeCandidates[0]
	if internal.InternalID != public.ID || internal.Display.Year != 2021 {
		t.Fatalf("unexpected internal candidate %+v", internal)
	}
	external := got.MergeCandidates[1]
	if external.ExternalIDs[title.SourceTMDB] != "841" || external.Display.Year != 1984 {
		t.Fatalf("unexpected external candidate %+v", external)
	}

	if got.Names["en"] != placeholder.Names["en"] || got.Year != placeholder.Year ||
		!got.CreatedAt.Equal(placeholder.CreatedAt) || got.Visibility != title.VisibilityPlaceholder {
		t.Fatalf("placeholder fields changed: before %+v after %+v", placeholder, got)
	}
}

func TestUpdateCandidatesOnPublicIsNoop(t *testing.T) {
	f := newFixture(t)
	public := testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceTMDB: "438631"}), title.VisibilityPublic)
	store := &faultyStore{Store: f.store}
	svc := f.service(t, store)

	if err := svc.UpdatePlaceholderMergeCandidates(context.Background(), public.ID); err != nil {
		t.Fatalf("UpdatePlaceholderMergeCandidates: %v", err)
	}
	if store.candidateWrites.Load() != 0 || len(f.tmdb.SearchCalls()) != 0 {
		t.Fatal("expected no writes or searches for a public title")
	}
}

func TestRunEnrichmentIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ids := []string{"tt0000001", "tt0000002", "tt0000003"}
	var saved []*title.Title
	for i, imdbID := range ids {
		r := title.ProviderResult{
			Names:       map[string]string{"en": "Film " + string(rune('A'+i))},
			Year:        2000 + i,
			ExternalIDs: map[title.Source]string{title.SourceIMDb: imdbID},
		}
		saved = append(saved, testsupport.MustUpsert(t, f.store, r, title.VisibilityPublic))
		f.imdb.Records[imdbID] = title.ProviderResult{
			Ratings:     map[title.Source]float64{title.SourceIMDb: 7.0},
			ExternalIDs: map[title.Source]string{title.SourceIMDb: imdbID},
		}
	}
	placeholder := testsupport.MustUpsert(t, f.store, title.ProviderResult{Names: map[string]string{"en": "Unknown"}}, title.VisibilityPlaceholder)

	store := &faultyStore{Store: f.store, failUpsertID: saved[1].ID}
	svc := f.service(t, store)
	summary := svc.RunEnrichment(context.Background())

	if summary.PublicRefreshed != 2 || summary.PublicFailed != 1 {
		t.Fatalf("unexpected public counts: %+v", summary)
	}
	if summary.PlaceholdersUpdated != 1 || summary.PlaceholdersFailed != 0 {
		t.Fatalf("unexpected placeholder counts: %+v", summary)
	}
	if summary.SweepID == "" {
		t.Fatal("expected sweep id")
	}
	for _, i := range []int{0, 2} {
		if got := f.mustGet(t, saved[i].ID); got.Ratings[title.SourceIMDb] != 7.0 {
			t.Fatalf("title %d not refreshed: %+v", i, got)
		}
	}
	if got := f.mustGet(t, saved[1].ID); len(got.Ratings) != 0 {
		t.Fatalf("failed title should be unchanged, got %+v", got)
	}
	if calls := f.tmdb.SearchCalls(); len(calls) != 1 || calls[0] != "Unknown" {
		t.Fatalf("expected placeholder search, got %v", calls)
	}
	_ = placeholder
}

func TestRunEnrichmentWithWorkerPool(t *testing.T) {
	f := newFixture(t)
	for i := range 6 {
		imdbID := "tt10000" + string(rune('0'+i))
		testsupport.MustUpsert(t, f.store, title.ProviderResult{
			Names:       map[string]string{"en": "Pool " + imdbID},
			Year:        1990 + i,
			ExternalIDs: map[title.Source]string{title.SourceIMDb: imdbID},
		}, title.VisibilityPublic)
		f.imdb.Records[imdbID] = title.ProviderResult{ExternalIDs: map[title.Source]string{title.SourceIMDb: imdbID}}
	}
	svc := f.service(t, nil, enrichment.WithWorkers(3))
	summary := svc.RunEnrichment(context.Background())
	if summary.PublicRefreshed != 6 || summary.PublicFailed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunEnrichmentStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t)
	testsupport.MustUpsert(t, f.store, dune(map[title.Source]string{title.SourceIMDb: "tt1160419"}), title.VisibilityPublic)
	svc := f.service(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary := svc.RunEnrichment(ctx)
	if summary.PublicRefreshed != 0 || summary.PlaceholdersUpdated != 0 {
		t.Fatalf("expected no items processed, got %+v", summary)
	}
}

func TestRunEnrichmentSkipsFreshCompleteTitles(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return now })
	complete := title.ProviderResult{
		Names:           map[string]string{"en": "Complete"},
		Year:            2020,
		MediaType:       title.MediaMovie,
		Poster:          "https://img.example/complete.jpg",
		DurationMinutes: 100,
		Genres:          []title.Genre{title.GenreDrama},
		Directors:       []string{"A"},
		Actors:          []string{"B"},
		Ratings:         map[title.Source]float64{title.SourceTMDB: 7, title.SourceIMDb: 7, title.SourceCSFD: 7},
		ExternalIDs:     map[title.Source]string{title.SourceTMDB: "1", title.SourceIMDb: "tt1", title.SourceCSFD: "1"},
	}
	testsupport.MustUpsert(t, f.store, complete, title.VisibilityPublic)

	svc := f.service(t, nil, enrichment.WithClock(func() time.Time { return now.Add(24 * time.Hour) }))
	summary := svc.RunEnrichment(context.Background())
	if summary.PublicRefreshed != 0 {
		t.Fatalf("expected fresh complete title to be skipped, got %+v", summary)
	}

	svc = f.service(t, nil, enrichment.WithClock(func() time.Time { return now.Add(31 * 24 * time.Hour) }))
	summary = svc.RunEnrichment(context.Background())
	if summary.PublicRefreshed != 1 {
		t.Fatalf("expected aged title to be refreshed, got %+v", summary)
	}
}

func TestReconcileSearchDedupesAcrossProviders(t *testing.T) {
	f := newFixture(t)
	f.tmdb.Searches["Dune"] = []title.ProviderResult{dune(map[title.Source]string{title.SourceTMDB: "1"})}
	f.imdb.Searches["Dune"] = []title.ProviderResult{dune(map[title.Source]string{title.SourceIMDb: "tt1"})}
	f.csfd.Searches["Dune"] = []title.ProviderResult{{
		Names:       map[string]string{"cs": "Duna", "en": "Dune"},
		Year:        1984,
		ExternalIDs: map[title.Source]string{title.SourceCSFD: "8539"},
	}}

	svc := f.service(t, nil)
	results, err := svc.ReconcileSearch(context.Background(), "  Dune ")
	if err != nil {
		t.Fatalf("ReconcileSearch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %+v", len(results), results)
	}
	first := results[0]
	if first.ExternalIDs[title.SourceTMDB] != "1" || first.ExternalIDs[title.SourceIMDb] != "tt1" {
		t.Fatalf("expected merged external ids, got %v", first.ExternalIDs)
	}

	if _, err := svc.ReconcileSearch(context.Background(), " "); !errors.Is(err, enrichment.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty query, got %v", err)
	}
}

func TestImportTitleCreatesThenAbsorbs(t *testing.T) {
	f := newFixture(t)
	f.tmdb.Records["438631"] = title.ProviderResult{
		Names:       map[string]string{"en": "Dune", "cs": "Duna"},
		Year:        2021,
		MediaType:   title.MediaMovie,
		Ratings:     map[title.Source]float64{title.SourceTMDB: 7.8},
		ExternalIDs: map[title.Source]string{title.SourceTMDB: "438631"},
	}
	f.imdb.Records["tt1160419"] = title.ProviderResult{
		Names:       map[string]string{"en": "Dune: Part One"},
		Year:        2021,
		Ratings:     map[title.Source]float64{title.SourceIMDb: 8.0},
		ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt1160419"},
	}
	svc := f.service(t, nil)
	ctx := context.Background()

	imported, err := svc.ImportTitle(ctx, map[title.Source]string{title.SourceTMDB: "438631", title.SourceIMDb: "tt1160419"}, title.MediaMovie)
	if err != nil {
		t.Fatalf("ImportTitle: %v", err)
	}
	if !imported.IsPublic() || imported.Names["en"] != "Dune" || imported.AvgRating != 7.9 {
		t.Fatalf("unexpected imported title %+v", imported)
	}

	again, err := svc.ImportTitle(ctx, map[title.Source]string{title.SourceIMDb: "tt1160419"}, "")
	if err != nil {
		t.Fatalf("ImportTitle again: %v", err)
	}
	if again.ID != imported.ID {
		t.Fatalf("expected import to merge into %s, got %s", imported.ID, again.ID)
	}

	if _, err := svc.ImportTitle(ctx, map[title.Source]string{title.SourceCSFD: "1"}, ""); !errors.Is(err, enrichment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ImportTitle(ctx, nil, ""); !errors.Is(err, enrichment.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreatePlaceholderDiscoversCandidates(t *testing.T) {
	f := newFixture(t)
	f.tmdb.Searches["Pelíšky"] = []title.ProviderResult{{
		Names:       map[string]string{"cs": "Pelíšky", "en": "Cosy Dens"},
		Year:        1999,
		ExternalIDs: map[title.Source]string{title.SourceTMDB: "32152"},
	}}
	svc := f.service(t, nil)

	created, err := svc.CreatePlaceholder(context.Background(), map[string]string{"cs": " Pelíšky "}, 1999, title.MediaMovie)
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}
	if !created.IsPlaceholder() || created.Names["cs"] != "Pelíšky" {
		t.Fatalf("unexpected placeholder %+v", created)
	}
	if len(created.MergeCandidates) != 1 || created.MergeCandidates[0].ExternalIDs[title.SourceTMDB] != "32152" {
		t.Fatalf("expected tmdb candidate, got %+v", created.MergeCandidates)
	}

	if _, err := svc.CreatePlaceholder(context.Background(), map[string]string{"en": " "}, 0, ""); !errors.Is(err, enrichment.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRefreshReturnsUpdatedTitle(t *testing.T) {
	f := newFixture(t)
	placeholder := testsupport.MustUpsert(t, f.store, title.ProviderResult{Names: map[string]string{"en": "Arrival"}}, title.VisibilityPlaceholder)
	f.imdb.Searches["Arrival"] = []title.ProviderResult{{
		Names:       map[string]string{"en": "Arrival"},
		Year:        2016,
		ExternalIDs: map[title.Source]string{title.SourceIMDb: "tt2543164"},
	}}
	svc := f.service(t, nil)
	got, err := svc.Refresh(context.Background(), placeholder.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got.MergeCandidates) != 1 {
		t.Fatalf("expected candidate after refresh, got %+v", got.MergeCandidates)
	}
}

func TestMergeCandidatesRankTextHitsBySimilarityThenYear(t *testing.T) {
	f := newFixture(t)
	mk := func(name string, year int, id string) *title.Title {
		return testsupport.MustUpsert(t, f.store, title.ProviderResult{
			Names:       map[string]string{"en": name},
			Year:        year,
			ExternalIDs: map[title.Source]string{title.SourceTMDB: id},
		}, title.VisibilityPublic)
	}
	oldDune := mk("Dune", 1984, "841")
	partTwoDoc := mk("Part Two", 2000, "1")
	newDune := mk("Dune", 2021, "438631")
	sequel := mk("Dune: Part Two", 2024, "693134")
	placeholder := testsupport.MustUpsert(t, f.store, title.ProviderResult{
		Names: map[string]string{"en": "Dune Part Two"},
	}, title.VisibilityPlaceholder)

	svc := f.service(t, nil)
	if err := svc.UpdatePlaceholderMergeCandidates(context.Background(), placeholder.ID); err != nil {
		t.Fatalf("UpdatePlaceholderMergeCandidates: %v", err)
	}

	got := f.mustGet(t, placeholder.ID).MergeCandidates
	want := []string{sequel.ID, partTwoDoc.ID, newDune.ID, oldDune.ID}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %+v", len(want), got)
	}
	for i, id := range want {
		if got[i].InternalID != id {
			t.Fatalf("candidate %d = %+v, want internal id %s", i, got[i], id)
		}
	}
}
