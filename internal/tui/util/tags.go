package util

import (
	"strings"

	"hcj-play/internal/tui/state"
)

// ComputeTags calculates the status chips for a buffer given its current
// text, the text it had at the last run, and whether any run has happened.
//
// The returned slice preserves a stable order:
//
//	Pending, Never Run, Delta, Lines, Chars
//
// Rules:
//   - Pending is set when the buffer differs from its last-run content.
//   - Never Run replaces Pending until the first run has published.
//   - Delta carries the rune difference against the last run when non-zero.
//   - Lines and Chars are always included (counters).
func ComputeTags(current, lastRun string, ran bool) []state.Tag {
	curLen := runeLen(current)
	tags := make([]state.Tag, 0, 5)

	if !ran {
		tags = append(tags, state.Tag{Kind: state.NEVER_RUN})
	} else if current != lastRun {
		tags = append(tags, state.Tag{Kind: state.PENDING})
		if d := curLen - runeLen(lastRun); d != 0 {
			tags = append(tags, state.Tag{Kind: state.DELTA, Value: d})
		}
	}

	tags = append(tags, state.Tag{Kind: state.LINES, Value: LineCount(current)})
	tags = append(tags, state.Tag{Kind: state.CHARS, Value: curLen})
	return tags
}

// LineCount returns the number of lines in s; an empty buffer has one line,
// matching what the editor displays.
func LineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int {
	return len([]rune(s))
}
