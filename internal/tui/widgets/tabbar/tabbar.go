package tabbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hcj-play/internal/buffer"
	"hcj-play/internal/tui/state"
	"hcj-play/internal/tui/util"
)

var (
	tabStyle    = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
	runStyle    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(util.DefaultPalette().Success)
)

type TabBar struct{}

func NewTabBar() TabBar { return TabBar{} }

// View renders one tab per buffer, marking the active one and any buffer
// with edits not yet run, followed by the Run hint.
func (TabBar) View(s state.UIState, pending func(buffer.Name) bool, runHint string, noColor bool) string {
	p := util.DefaultPalette()
	tabs := make([]string, 0, len(buffer.Names)+1)
	for i, n := range buffer.Names {
		label := n.FileName()
		if pending != nil && pending(n) {
			label += "*"
		}
		if noColor {
			if n == s.Active {
				label = "<" + label + ">"
			}
			tabs = append(tabs, label)
			continue
		}
		st := tabStyle.Foreground(p.Muted)
		if n == s.Active {
			st = activeStyle.Foreground(p.TabAccent(i))
		}
		tabs = append(tabs, st.Render(label))
	}
	run := "Run (" + runHint + ")"
	if noColor {
		return strings.Join(append(tabs, "["+run+"]"), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, "  ", runStyle.Render(run))...)
}
