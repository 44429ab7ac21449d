// Package lrclib is a small client for the LRCLIB lyrics database API.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// DefaultBaseURL is the public LRCLIB API root.
const DefaultBaseURL = "https://lrclib.net/api"

// ErrNotFound is returned by Get when LRCLIB has no record for the track.
var ErrNotFound = errors.New("lrclib: track not found")

// Client LRCLIB API客户端
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: "Tune-into-English/1.0",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetUserAgent sets the User-Agent header LRCLIB asks clients to send.
func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// GetParams are the lookup keys of the /get endpoint. Empty album and ISRC
// and a zero duration are left out of the request.
type GetParams struct {
	TrackName  string
	ArtistName string
	AlbumName  string
	ISRC       string
	Duration   int // seconds
}

func (p GetParams) values() url.Values {
	v := url.Values{}
	v.Set("track_name", p.TrackName)
	v.Set("artist_name", p.ArtistName)
	if p.AlbumName != "" {
		v.Set("album_name", p.AlbumName)
	}
	if p.ISRC != "" {
		v.Set("isrc", p.ISRC)
	}
	if p.Duration > 0 {
		v.Set("duration", strconv.Itoa(p.Duration))
	}
	return v
}

// Get looks up a single record by exact metadata. A 404 yields ErrNotFound.
func (c *Client) Get(ctx context.Context, params GetParams) (*model.LyricsRecord, error) {
	var record model.LyricsRecord
	if err := c.getJSON(ctx, "/get", params.values(), &record); err != nil {
		return nil, err
	}
	logger.Debug("[lrclib/Get] record found",
		logger.String("track", params.TrackName),
		logger.String("artist", params.ArtistName),
		logger.Bool("synced", record.SyncedLyrics != ""))
	return &record, nil
}

// Search runs a free-text query and returns the candidates in LRCLIB's order.
func (c *Client) Search(ctx context.Context, query string) ([]model.LyricsRecord, error) {
	v := url.Values{}
	v.Set("q", query)

	var records []model.LyricsRecord
	err := c.getJSON(ctx, "/search", v, &records)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("[lrclib/Search] candidates returned",
		logger.String("query", query),
		logger.Int("count", len(records)))
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lrclib request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lrclib %s returned status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode lrclib %s response: %w", path, err)
	}
	return nil
}
