package state

// TagKind enumerates the status chips shown for the active buffer.
type TagKind int

const (
	// Stable ordering for display: Pending, Never Run, Grown/Shrunk, Lines, Chars
	PENDING TagKind = iota
	NEVER_RUN
	DELTA
	LINES
	CHARS
)

// Tag represents a single status chip. Value is used for numeric counters
// (e.g., line count or the rune delta). Non-numeric tags use Value = 0.
type Tag struct {
	Kind  TagKind
	Value int
}
