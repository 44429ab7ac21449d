// Package normalize cleans up track metadata before it is sent to a lyrics
// database. Every function here is pure and idempotent.
package normalize

import (
	"regexp"
	"strings"

	"github.com/kanekosora-114/Tune-into-English/model"
)

var (
	// An opening bracket of any kind up to the nearest closing bracket.
	bracketPattern = regexp.MustCompile(`(?s)\s*[(\[{].*?[)\]}]\s*`)

	versionSuffixPattern = regexp.MustCompile(
		`(?i)\s*[-–—]\s*(?:live|remix|radio edit|edit|version|remaster(?:ed)?(?:\s*\d{2,4})?|explicit|clean)\s*$`)

	featPattern = regexp.MustCompile(`(?i)\b(?:feat|ft)\.?\s+.*$`)

	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", "‛", "'",
		"“", `"`, "”", `"`, "‟", `"`,
	)
)

// Title strips bracketed annotations and trailing version suffixes
// ("- Live", "- Remastered 2011", ...) from a track title.
func Title(s string) string {
	t := collapseSpace(s)
	t = stripBrackets(t)
	for {
		stripped := versionSuffixPattern.ReplaceAllString(t, "")
		if stripped == t {
			break
		}
		t = stripped
	}
	return finish(t)
}

// Artist strips bracketed annotations and any "feat." / "ft." credit.
func Artist(s string) string {
	a := collapseSpace(s)
	a = stripBrackets(a)
	a = featPattern.ReplaceAllString(a, "")
	return finish(a)
}

// Query normalizes the title and artist of q.
func Query(q model.TrackQuery) model.NormalizedQuery {
	return model.NormalizedQuery{
		Title:  Title(q.Title),
		Artist: Artist(q.Artist),
	}
}

// stripBrackets replaces every bracketed span with a single space. After one
// pass no opening bracket is followed by a closing one, so one pass is enough.
func stripBrackets(s string) string {
	return bracketPattern.ReplaceAllString(s, " ")
}

func finish(s string) string {
	return collapseSpace(quoteReplacer.Replace(s))
}

// collapseSpace turns every run of Unicode whitespace into one ASCII space
// and trims both ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
