package lyrics

import (
	"context"
	"errors"
	"strings"

	"github.com/kanekosora-114/Tune-into-English/core/lrclib"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// Source is the lyrics database the strategies query.
type Source interface {
	Get(ctx context.Context, params lrclib.GetParams) (*model.LyricsRecord, error)
	Search(ctx context.Context, query string) ([]model.LyricsRecord, error)
}

// Lookup carries everything a strategy may need for one resolution.
type Lookup struct {
	Title           string // trimmed, as given by the caller
	Artist          string
	Album           string
	ISRC            string
	DurationSeconds int
	Normalized      model.NormalizedQuery
}

// Strategy is one step of the fallback chain.
type Strategy interface {
	Name() string
	Find(ctx context.Context, l Lookup) (model.LyricsResult, bool)
}

// Chain tries its strategies in order and stops at the first hit.
type Chain []Strategy

// Run returns the first result, tagged with the name of the strategy that
// produced it.
func (c Chain) Run(ctx context.Context, l Lookup) (model.LyricsResult, bool) {
	for _, s := range c {
		if ctx.Err() != nil {
			return model.LyricsResult{}, false
		}
		if res, ok := s.Find(ctx, l); ok {
			res.Source = s.Name()
			return res, true
		}
	}
	return model.LyricsResult{}, false
}

// DirectLookup queries the exact-match endpoint. With Raw set it uses the
// caller's title and artist instead of the normalized ones.
type DirectLookup struct {
	Source Source
	Raw    bool
}

func (d DirectLookup) Name() string {
	if d.Raw {
		return model.SourceDirectRaw
	}
	return model.SourceDirect
}

func (d DirectLookup) Find(ctx context.Context, l Lookup) (model.LyricsResult, bool) {
	params := lrclib.GetParams{
		TrackName:  l.Normalized.Title,
		ArtistName: l.Normalized.Artist,
		AlbumName:  l.Album,
		ISRC:       l.ISRC,
		Duration:   l.DurationSeconds,
	}
	if d.Raw {
		params.TrackName, params.ArtistName = l.Title, l.Artist
	}

	rec, err := d.Source.Get(ctx, params)
	if err != nil {
		if !errors.Is(err, lrclib.ErrNotFound) {
			logger.Warn("[Lyrics] direct lookup failed",
				logger.String("strategy", d.Name()),
				logger.String("track", params.TrackName),
				logger.ErrorField(err))
		}
		return model.LyricsResult{}, false
	}
	return TextOf(*rec)
}

// SearchFallback runs a free-text search and picks the best scoring candidate.
type SearchFallback struct {
	Source Source
}

func (SearchFallback) Name() string { return model.SourceSearch }

func (s SearchFallback) Find(ctx context.Context, l Lookup) (model.LyricsResult, bool) {
	query := SearchQuery(l)
	candidates, err := s.Source.Search(ctx, query)
	if err != nil {
		logger.Warn("[Lyrics] search failed",
			logger.String("query", query),
			logger.ErrorField(err))
		return model.LyricsResult{}, false
	}
	best, ok := PickBest(candidates, l.Title, l.Artist, l.DurationSeconds)
	if !ok {
		return model.LyricsResult{}, false
	}
	return TextOf(best)
}

// SearchQuery joins the normalized title and artist and the album with
// single spaces, skipping empty parts.
func SearchQuery(l Lookup) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Normalized.Title, l.Normalized.Artist, l.Album} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
