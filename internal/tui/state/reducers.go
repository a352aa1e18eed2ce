package state

import "hcj-play/internal/buffer"

// EnterMode sets the mode and its notice.
func EnterMode(s UIState, m EditorMode) UIState {
	s.Mode = m
	s.Notice = "[" + m.String() + "]"
	return s
}

// Select records the active tab. Buffer contents live in the store and
// are not touched here.
func Select(s UIState, n buffer.Name) UIState {
	s.Active = n
	s.Notice = ""
	return s
}

// Loaded records how the bound buffer made it into the editor.
func Loaded(s UIState, file string, normalized, readOnly bool) UIState {
	s.Normalized = normalized && !readOnly
	s.ReadOnly = readOnly
	switch {
	case readOnly:
		s.Notice = file + " is read-only: the editor cannot show it unchanged"
	case normalized:
		s.Notice = file + ": CRLF and tabs converted, saved on next edit"
	}
	return s
}

// Saved records a successful write of the bound buffer.
func Saved(s UIState) UIState {
	s.Normalized = false
	return s
}

// ToggleHelp shows or hides the help overlay.
func ToggleHelp(s UIState) UIState {
	s.ShowHelp = !s.ShowHelp
	return s
}

// ToggleDiff shows or hides the pending-changes view.
func ToggleDiff(s UIState) UIState {
	s.ShowDiff = !s.ShowDiff
	return s
}

// ToggleView switches between Unified and SideBySide diff views.
func ToggleView(s UIState) UIState {
	if s.View == Unified {
		s.View = SideBySide
	} else {
		s.View = Unified
	}
	return s
}

// Resize updates the size and falls back to unified if too narrow for
// side-by-side. Threshold: two MinCol columns plus a 3-char separator.
func Resize(s UIState, width, height int) UIState {
	s.Width = width
	s.Height = height
	threshold := 2*s.MinCol + 3
	if s.View == SideBySide && s.Width < threshold {
		s.View = Unified
		s.Notice = "Narrow width: using unified view"
	}
	return s
}

// MarkReady records that the editor host has initialized. It reports
// whether this call was the transition.
func MarkReady(s UIState) (UIState, bool) {
	if s.Ready {
		return s, false
	}
	s.Ready = true
	return s, true
}

// Published records a new preview revision.
func Published(s UIState, rev, reason string) UIState {
	s.LastRev = rev
	s.Notice = "Published " + shortRev(rev) + " (" + reason + ")"
	return s
}

// SetNotice replaces the notice line.
func SetNotice(s UIState, msg string) UIState {
	s.Notice = msg
	return s
}

func shortRev(rev string) string {
	if len(rev) > 8 {
		return rev[len(rev)-8:]
	}
	return rev
}
