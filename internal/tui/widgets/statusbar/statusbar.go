package statusbar

import (
	"fmt"
	"strings"

	"hcj-play/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// Info carries per-buffer details the UI state does not hold.
type Info struct {
	Language string
	Line     int
	Col      int
	Chips    string
}

// View composes a concise status line reflecting key UI state.
func (StatusBar) View(s state.UIState, info Info) string {
	mode := "[" + s.Mode.String() + "]"
	pos := fmt.Sprintf("%d:%d", info.Line, info.Col)

	parts := []string{mode, info.Language, pos}
	if info.Chips != "" {
		parts = append(parts, info.Chips)
	}
	switch {
	case s.ReadOnly:
		parts = append(parts, "[read-only]")
	case s.Normalized:
		parts = append(parts, "[normalized]")
	}
	if s.ShowDiff {
		view := "Unified"
		if s.View == state.SideBySide {
			view = "Side-by-side"
		}
		parts = append(parts, "Diff: "+view)
	}
	if s.PreviewURL != "" {
		parts = append(parts, s.PreviewURL)
	}
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	return strings.Join(parts, "  ")
}
