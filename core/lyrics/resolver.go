// Package lyrics resolves lyrics for a track by walking a chain of lookup
// strategies against LRCLIB.
package lyrics

import (
	"context"
	"strings"
	"time"

	"github.com/kanekosora-114/Tune-into-English/core/normalize"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// Finder is anything that can resolve lyrics for a track.
type Finder interface {
	Resolve(ctx context.Context, q model.TrackQuery) (model.LyricsResult, bool)
}

// Recorder stores a summary of every resolution.
type Recorder interface {
	Record(ctx context.Context, entry *model.LyricsLookup) error
}

// Resolver finds lyrics for a track. It keeps no state between calls.
type Resolver struct {
	source   Source
	recorder Recorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecorder logs each resolution through rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		r.recorder = rec
	}
}

// NewResolver creates a resolver backed by src.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{source: src}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLookup trims q and derives the normalized title and artist. When
// normalization leaves nothing, the trimmed value is used instead.
func NewLookup(q model.TrackQuery) Lookup {
	l := Lookup{
		Title:           strings.TrimSpace(q.Title),
		Artist:          strings.TrimSpace(q.Artist),
		Album:           strings.TrimSpace(q.Album),
		ISRC:            strings.TrimSpace(q.ISRC),
		DurationSeconds: q.DurationSeconds(),
	}
	l.Normalized = normalize.Query(model.TrackQuery{Title: l.Title, Artist: l.Artist})
	if l.Normalized.Title == "" {
		l.Normalized.Title = l.Title
	}
	if l.Normalized.Artist == "" {
		l.Normalized.Artist = l.Artist
	}
	return l
}

// Chain returns the strategies tried for l, in order.
func (r *Resolver) Chain(l Lookup) Chain {
	chain := Chain{DirectLookup{Source: r.source}}
	if l.Title != l.Normalized.Title || l.Artist != l.Normalized.Artist {
		chain = append(chain, DirectLookup{Source: r.source, Raw: true})
	}
	return append(chain, SearchFallback{Source: r.source})
}

// Resolve returns the lyrics for q, preferring synchronized text. It never
// fails: lookup errors are logged and treated as "no match".
func (r *Resolver) Resolve(ctx context.Context, q model.TrackQuery) (model.LyricsResult, bool) {
	l := NewLookup(q)
	if l.Title == "" || l.Artist == "" {
		return model.LyricsResult{}, false
	}

	start := time.Now()
	res, ok := r.Chain(l).Run(ctx, l)
	elapsed := time.Since(start)

	if ok {
		logger.Info("[Lyrics] resolved",
			logger.String("title", l.Title),
			logger.String("artist", l.Artist),
			logger.String("source", res.Source),
			logger.Bool("synced", res.Synced),
			logger.Duration("elapsed", elapsed))
	} else {
		logger.Info("[Lyrics] not found",
			logger.String("title", l.Title),
			logger.String("artist", l.Artist),
			logger.Duration("elapsed", elapsed))
	}

	recordLookup(ctx, r.recorder, l, res, ok, elapsed)
	return res, ok
}

func recordLookup(ctx context.Context, rec Recorder, l Lookup, res model.LyricsResult, found bool, elapsed time.Duration) {
	if rec == nil {
		return
	}
	entry := &model.LyricsLookup{
		Title:            l.Title,
		Artist:           l.Artist,
		Album:            l.Album,
		ISRC:             l.ISRC,
		DurationSeconds:  l.DurationSeconds,
		NormalizedTitle:  l.Normalized.Title,
		NormalizedArtist: l.Normalized.Artist,
		Found:            found,
		Synced:           res.Synced,
		Source:           res.Source,
		ElapsedMS:        elapsed.Milliseconds(),
	}
	if err := rec.Record(ctx, entry); err != nil {
		logger.Warn("[Lyrics] failed to record lookup", logger.ErrorField(err))
	}
}
