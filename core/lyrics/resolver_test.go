package lyrics

import (
	"context"
	"errors"
	"testing"

	"github.com/kanekosora-114/Tune-into-English/core/lrclib"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// fakeSource answers Get from a map keyed by "track|artist" and Search from
// a fixed list, recording every call.
type fakeSource struct {
	records   map[string]*model.LyricsRecord
	getErr    error
	results   []model.LyricsRecord
	searchErr error

	gets     []lrclib.GetParams
	searches []string
}

func (f *fakeSource) Get(_ context.Context, p lrclib.GetParams) (*model.LyricsRecord, error) {
	f.gets = append(f.gets, p)
	if f.getErr != nil {
		return nil, f.getErr
	}
	if rec, ok := f.records[p.TrackName+"|"+p.ArtistName]; ok {
		return rec, nil
	}
	return nil, lrclib.ErrNotFound
}

func (f *fakeSource) Search(_ context.Context, q string) ([]model.LyricsRecord, error) {
	f.searches = append(f.searches, q)
	return f.results, f.searchErr
}

type fakeRecorder struct {
	entries []*model.LyricsLookup
}

func (f *fakeRecorder) Record(_ context.Context, e *model.LyricsLookup) error {
	f.entries = append(f.entries, e)
	return nil
}

func TestResolveEmptyTitleMakesNoCalls(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src)

	for _, q := range []model.TrackQuery{
		{Title: "", Artist: "X"},
		{Title: "   ", Artist: "X"},
		{Title: "Song", Artist: ""},
	} {
		if res, ok := r.Resolve(context.Background(), q); ok {
			t.Errorf("Resolve(%+v) = %+v, want absent", q, res)
		}
	}
	if len(src.gets) != 0 || len(src.searches) != 0 {
		t.Errorf("made %d gets and %d searches, want none", len(src.gets), len(src.searches))
	}
}

func TestResolveFallsBackToSearch(t *testing.T) {
	src := &fakeSource{
		results: []model.LyricsRecord{
			{TrackName: "Title", ArtistName: "Artist", Duration: 245, SyncedLyrics: "[00:00.00]Hi"},
		},
	}
	rec := &fakeRecorder{}
	r := NewResolver(src, WithRecorder(rec))

	res, ok := r.Resolve(context.Background(), model.TrackQuery{
		Title:      "Title (Live) [Bonus Track]",
		Artist:     "Artist feat. Other",
		DurationMS: 245000,
	})
	if !ok {
		t.Fatal("Resolve() found nothing, want search result")
	}
	if res.Text != "[00:00.00]Hi" || !res.Synced || res.Source != model.SourceSearch {
		t.Errorf("Resolve() = %+v", res)
	}

	if len(src.gets) != 2 {
		t.Fatalf("made %d direct lookups, want 2", len(src.gets))
	}
	first := src.gets[0]
	if first.TrackName != "Title" || first.ArtistName != "Artist" || first.Duration != 245 {
		t.Errorf("first lookup = %+v, want normalized title/artist and 245s", first)
	}
	if src.gets[1].TrackName != "Title (Live) [Bonus Track]" {
		t.Errorf("second lookup track = %q, want the raw title", src.gets[1].TrackName)
	}
	if len(src.searches) != 1 || src.searches[0] != "Title Artist" {
		t.Errorf("searches = %q, want [\"Title Artist\"]", src.searches)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if !e.Found || e.Source != model.SourceSearch || e.NormalizedTitle != "Title" || e.DurationSeconds != 245 {
		t.Errorf("recorded entry = %+v", e)
	}
}

func TestResolveDirectHitPrefersSynced(t *testing.T) {
	src := &fakeSource{records: map[string]*model.LyricsRecord{
		"Song|Band": {SyncedLyrics: "  [00:01.00]la\n", PlainLyrics: "la"},
	}}
	res, ok := NewResolver(src).Resolve(context.Background(), model.TrackQuery{Title: "Song", Artist: "Band", Album: "LP"})
	if !ok || res.Text != "[00:01.00]la" || !res.Synced || res.Source != model.SourceDirect {
		t.Errorf("Resolve() = %+v, %v", res, ok)
	}
	if len(src.searches) != 0 {
		t.Error("search ran after a direct hit")
	}
	if src.gets[0].AlbumName != "LP" {
		t.Errorf("album = %q, want LP", src.gets[0].AlbumName)
	}
}

func TestResolveSkipsRawRetryWhenAlreadyClean(t *testing.T) {
	src := &fakeSource{}
	NewResolver(src).Resolve(context.Background(), model.TrackQuery{Title: "Song", Artist: "Band"})
	if len(src.gets) != 1 {
		t.Errorf("made %d direct lookups, want 1", len(src.gets))
	}
}

func TestResolveRawTitleRetry(t *testing.T) {
	src := &fakeSource{records: map[string]*model.LyricsRecord{
		"Song (Interlude)|Band": {PlainLyrics: "words"},
	}}
	res, ok := NewResolver(src).Resolve(context.Background(), model.TrackQuery{Title: "Song (Interlude)", Artist: "Band"})
	if !ok || res.Text != "words" || res.Synced || res.Source != model.SourceDirectRaw {
		t.Errorf("Resolve() = %+v, %v", res, ok)
	}
}

func TestResolveEmptyDirectRecordContinues(t *testing.T) {
	src := &fakeSource{
		records: map[string]*model.LyricsRecord{"Song|Band": {SyncedLyrics: " ", PlainLyrics: ""}},
		results: []model.LyricsRecord{{TrackName: "Song", PlainLyrics: "from search"}},
	}
	res, ok := NewResolver(src).Resolve(context.Background(), model.TrackQuery{Title: "Song", Artist: "Band"})
	if !ok || res.Text != "from search" {
		t.Errorf("Resolve() = %+v, %v", res, ok)
	}
}

func TestResolveSwallowsErrors(t *testing.T) {
	src := &fakeSource{getErr: errors.New("connection refused"), searchErr: errors.New("timeout")}
	rec := &fakeRecorder{}
	res, ok := NewResolver(src, WithRecorder(rec)).Resolve(context.Background(), model.TrackQuery{Title: "Song", Artist: "Band"})
	if ok {
		t.Errorf("Resolve() = %+v, want absent", res)
	}
	if len(rec.entries) != 1 || rec.entries[0].Found {
		t.Errorf("recorded %+v, want one not-found entry", rec.entries)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	src := &fakeSource{}
	if _, ok := NewResolver(src).Resolve(context.Background(), model.TrackQuery{Title: "Song", Artist: "Band"}); ok {
		t.Error("Resolve() found lyrics with no records")
	}
	if len(src.searches) != 1 {
		t.Errorf("searches = %d, want 1", len(src.searches))
	}
}

func TestSearchQuery(t *testing.T) {
	l := NewLookup(model.TrackQuery{Title: "Song - Live", Artist: "Band ft. X", Album: " Album "})
	if got := SearchQuery(l); got != "Song Band Album" {
		t.Errorf("SearchQuery() = %q, want %q", got, "Song Band Album")
	}
}

func TestNewLookupKeepsRawWhenNormalizedEmpty(t *testing.T) {
	l := NewLookup(model.TrackQuery{Title: "(Intro)", Artist: "Band"})
	if l.Normalized.Title != "(Intro)" {
		t.Errorf("Normalized.Title = %q, want raw fallback", l.Normalized.Title)
	}
}

type stubStrategy struct {
	name  string
	res   model.LyricsResult
	ok    bool
	calls *[]string
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Find(context.Context, Lookup) (model.LyricsResult, bool) {
	*s.calls = append(*s.calls, s.name)
	return s.res, s.ok
}

func TestChainStopsAtFirstHit(t *testing.T) {
	var calls []string
	chain := Chain{
		stubStrategy{name: "a", calls: &calls},
		stubStrategy{name: "b", res: model.LyricsResult{Text: "B"}, ok: true, calls: &calls},
		stubStrategy{name: "c", res: model.LyricsResult{Text: "C"}, ok: true, calls: &calls},
	}
	res, ok := chain.Run(context.Background(), Lookup{})
	if !ok || res.Text != "B" || res.Source != "b" {
		t.Errorf("Run() = %+v, %v", res, ok)
	}
	if len(calls) != 2 {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := (Chain{stubStrategy{name: "a", ok: true, calls: &calls}}).Run(ctx, Lookup{}); ok {
		t.Error("Run() succeeded with a cancelled context")
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}
