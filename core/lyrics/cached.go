package lyrics

import (
	"context"
	"time"

	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// Store keeps resolved lyrics between calls.
type Store interface {
	Get(ctx context.Context, q model.TrackQuery) (model.LyricsResult, bool, error)
	Set(ctx context.Context, q model.TrackQuery, res model.LyricsResult) error
}

// CachingResolver answers from a Store before falling through to the next
// Finder. Only hits are stored, so a missing track is retried every time.
type CachingResolver struct {
	next     Finder
	store    Store
	recorder Recorder
}

// CacheOption configures a CachingResolver.
type CacheOption func(*CachingResolver)

// WithHitRecorder logs cache hits through rec. Lookups that reach next are
// left to next to record.
func WithHitRecorder(rec Recorder) CacheOption {
	return func(c *CachingResolver) {
		c.recorder = rec
	}
}

// NewCachingResolver wraps next with store.
func NewCachingResolver(next Finder, store Store, opts ...CacheOption) *CachingResolver {
	c := &CachingResolver{next: next, store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachingResolver) Resolve(ctx context.Context, q model.TrackQuery) (model.LyricsResult, bool) {
	l := NewLookup(q)
	if l.Title == "" || l.Artist == "" {
		return model.LyricsResult{}, false
	}

	start := time.Now()
	if cached, ok, err := c.store.Get(ctx, q); err != nil {
		logger.Warn("[Lyrics] cache read failed", logger.ErrorField(err))
	} else if ok {
		cached.Source = model.SourceCache
		recordLookup(ctx, c.recorder, l, cached, true, time.Since(start))
		return cached, true
	}

	res, ok := c.next.Resolve(ctx, q)
	if !ok {
		return res, false
	}
	if err := c.store.Set(ctx, q, res); err != nil {
		logger.Warn("[Lyrics] cache write failed", logger.ErrorField(err))
	}
	return res, true
}
