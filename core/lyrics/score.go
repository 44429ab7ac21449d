package lyrics

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kanekosora-114/Tune-into-English/model"
)

// Score points awarded to a search candidate.
const (
	titleMatchPoints    = 3
	artistMatchPoints   = 3
	closeDurationPoints = 2 // within closeDurationDelta seconds
	nearDurationPoints  = 1 // within nearDurationDelta seconds

	closeDurationDelta = 2
	nearDurationDelta  = 5
)

func equalFold(fold cases.Caser, a, b string) bool {
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// Score rates how well a search candidate matches the requested track.
// title and artist are the caller's values before normalization and
// durationSec is 0 when unknown.
func Score(c model.LyricsRecord, title, artist string, durationSec int) int {
	fold := cases.Fold()
	s := 0
	if title != "" && equalFold(fold, c.TrackName, title) {
		s += titleMatchPoints
	}
	if artist != "" && equalFold(fold, c.ArtistName, artist) {
		s += artistMatchPoints
	}
	if durationSec > 0 && c.Duration > 0 {
		diff := math.Abs(c.Duration - float64(durationSec))
		switch {
		case diff <= closeDurationDelta:
			s += closeDurationPoints
		case diff <= nearDurationDelta:
			s += nearDurationPoints
		}
	}
	return s
}

// PickBest returns the highest scoring candidate. On a tie the candidate
// that came first wins.
func PickBest(candidates []model.LyricsRecord, title, artist string, durationSec int) (model.LyricsRecord, bool) {
	if len(candidates) == 0 {
		return model.LyricsRecord{}, false
	}
	best, bestScore := 0, Score(candidates[0], title, artist, durationSec)
	for i := 1; i < len(candidates); i++ {
		if s := Score(candidates[i], title, artist, durationSec); s > bestScore {
			best, bestScore = i, s
		}
	}
	return candidates[best], true
}

// TextOf picks the lyrics to return from a record: synchronized text when
// present, plain text otherwise.
func TextOf(rec model.LyricsRecord) (model.LyricsResult, bool) {
	if synced := strings.TrimSpace(rec.SyncedLyrics); synced != "" {
		return model.LyricsResult{Text: synced, Synced: true}, true
	}
	if plain := strings.TrimSpace(rec.PlainLyrics); plain != "" {
		return model.LyricsResult{Text: plain}, true
	}
	return model.LyricsResult{}, false
}
