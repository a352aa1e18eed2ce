package state

import "hcj-play/internal/buffer"

// EditorMode represents the editor's current input mode.
type EditorMode int

const (
	CMD EditorMode = iota
	INSERT
)

func (m EditorMode) String() string {
	if m == INSERT {
		return "INSERT"
	}
	return "CMD"
}

// ParseMode maps the config spelling ("cmd" or "insert") to a mode.
func ParseMode(s string) EditorMode {
	if s == "cmd" {
		return CMD
	}
	return INSERT
}

// DiffMode controls how pending changes are rendered.
type DiffMode int

const (
	Unified DiffMode = iota
	SideBySide
)

// UIState holds cross-widget UI state used by the tab bar, status bar,
// diff view and editor.
type UIState struct {
	// Mode & view
	Mode     EditorMode
	Active   buffer.Name
	ShowHelp bool
	ShowDiff bool
	View     DiffMode

	// Layout
	Width  int
	Height int
	MinCol int

	// Editor host finished initializing (first size received)
	Ready bool

	// Preview
	PreviewURL string
	LastRev    string

	// Load outcome for the bound buffer. Normalized clears once the
	// rewritten text has been saved.
	Normalized bool
	ReadOnly   bool

	// Notices and ephemeral messages
	Notice string
}
