package model

import "time"

// TrackQuery identifies the track whose lyrics are wanted.
// Empty strings and a zero duration mean the field is absent.
type TrackQuery struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	DurationMS int64  `json:"durationMs,omitempty"`
	ISRC       string `json:"isrc,omitempty"`
}

// DurationSeconds converts DurationMS to whole seconds, rounding down but
// never below one second. Returns 0 when the duration is absent.
func (q TrackQuery) DurationSeconds() int {
	if q.DurationMS <= 0 {
		return 0
	}
	sec := q.DurationMS / 1000
	if sec < 1 {
		sec = 1
	}
	return int(sec)
}

// NormalizedQuery is the cleaned title and artist used for lookups.
type NormalizedQuery struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// LyricsRecord is one LRCLIB track record. The search endpoint returns a
// list of these, called candidates.
type LyricsRecord struct {
	ID           int64   `json:"id,omitempty"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"` // seconds, 0 when unknown
	Instrumental bool    `json:"instrumental"`
	SyncedLyrics string  `json:"syncedLyrics"`
	PlainLyrics  string  `json:"plainLyrics"`
}

// LyricsResult is what the resolver hands back to callers.
type LyricsResult struct {
	Text   string `json:"lyrics"`
	Synced bool   `json:"synced"`
	Source string `json:"source"`
}

// Lyrics sources, in the order they are tried.
const (
	SourceDirect    = "direct"
	SourceDirectRaw = "direct-raw"
	SourceSearch    = "search"
	SourceCache     = "cache"
)

// LyricsLookup is one row of the lookup log.
type LyricsLookup struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:512;not null" json:"title"`
	Artist           string    `gorm:"size:512;not null" json:"artist"`
	Album            string    `gorm:"size:512" json:"album,omitempty"`
	ISRC             string    `gorm:"size:32" json:"isrc,omitempty"`
	DurationSeconds  int       `json:"durationSeconds,omitempty"`
	NormalizedTitle  string    `gorm:"size:512;index" json:"normalizedTitle"`
	NormalizedArtist string    `gorm:"size:512;index" json:"normalizedArtist"`
	Found            bool      `gorm:"index" json:"found"`
	Synced           bool      `json:"synced"`
	Source           string    `gorm:"size:32" json:"source,omitempty"`
	ElapsedMS        int64     `json:"elapsedMs"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
}

// TableName pins the table name used by gorm.
func (LyricsLookup) TableName() string {
	return "lyrics_lookups"
}
