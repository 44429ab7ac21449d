package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"

	"github.com/kanekosora-114/Tune-into-English/model"
)

const lyricsKeyPrefix = "lyrics:v1:"

// LyricsCache stores resolved lyrics in Redis.
type LyricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLyricsCache creates a cache whose entries expire after ttl.
func NewLyricsCache(client *redis.Client, ttl time.Duration) *LyricsCache {
	return &LyricsCache{client: client, ttl: ttl}
}

// LyricsKey derives the Redis key for q. Fields are trimmed and lowercased
// so trivially different spellings share an entry.
func LyricsKey(q model.TrackQuery) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(q.Title)),
		strings.ToLower(strings.TrimSpace(q.Artist)),
		strings.ToLower(strings.TrimSpace(q.Album)),
		strings.ToUpper(strings.TrimSpace(q.ISRC)),
		strconv.Itoa(q.DurationSeconds()),
	}
	sum := xxhash.Sum64String(strings.Join(parts, "\x00"))
	return lyricsKeyPrefix + strconv.FormatUint(sum, 16)
}

// Get returns the cached result for q. A miss is not an error.
func (c *LyricsCache) Get(ctx context.Context, q model.TrackQuery) (model.LyricsResult, bool, error) {
	data, err := c.client.Get(ctx, LyricsKey(q)).Bytes()
	if err == redis.Nil {
		return model.LyricsResult{}, false, nil
	}
	if err != nil {
		return model.LyricsResult{}, false, fmt.Errorf("failed to read lyrics cache: %w", err)
	}

	var res model.LyricsResult
	if err := json.Unmarshal(data, &res); err != nil {
		return model.LyricsResult{}, false, fmt.Errorf("failed to decode cached lyrics: %w", err)
	}
	return res, true, nil
}

// Set stores res for q.
func (c *LyricsCache) Set(ctx context.Context, q model.TrackQuery, res model.LyricsResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode lyrics: %w", err)
	}
	if err := c.client.Set(ctx, LyricsKey(q), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write lyrics cache: %w", err)
	}
	return nil
}

// Delete drops the entry for q.
func (c *LyricsCache) Delete(ctx context.Context, q model.TrackQuery) error {
	return c.client.Del(ctx, LyricsKey(q)).Err()
}
