package helpoverlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	"hcj-play/internal/tui/state"
)

func TestViewListsEnabledBindings(t *testing.T) {
	run := key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "run"))
	off := key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "hidden"))
	off.SetEnabled(false)

	out := NewHelpOverlay().View(state.UIState{Mode: state.INSERT}, []Section{
		{Title: "Preview", Keys: []key.Binding{run, off}},
	})
	if !strings.Contains(out, "Help (Mode: INSERT)") {
		t.Fatalf("missing mode header: %q", out)
	}
	if !strings.Contains(out, "Preview:") || !strings.Contains(out, "ctrl+s: run") {
		t.Fatalf("missing section or binding: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("disabled binding rendered: %q", out)
	}
}
