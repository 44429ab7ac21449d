package translate

import "regexp"

// syncDetectLines is how many leading lines are inspected for time tags.
const syncDetectLines = 10

// One or more leading [m:ss] or [m:ss.fff] tags.
var timeTagPattern = regexp.MustCompile(`^(\[\d{1,2}:\d{2}(?:\.\d{1,3})?\])+`)

// HasTimeTag reports whether line starts with at least one LRC time tag.
func HasTimeTag(line string) bool {
	return timeTagPattern.MatchString(line)
}

// IsSynced reports whether any of the first ten lines carries a time tag.
func IsSynced(lines []string) bool {
	if len(lines) > syncDetectLines {
		lines = lines[:syncDetectLines]
	}
	for _, l := range lines {
		if HasTimeTag(l) {
			return true
		}
	}
	return false
}

// SplitTimeTags separates the leading time tags of line from its text.
func SplitTimeTags(line string) (tags, text string) {
	loc := timeTagPattern.FindStringIndex(line)
	if loc == nil {
		return "", line
	}
	return line[:loc[1]], line[loc[1]:]
}
