package tagchips

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hcj-play/internal/tui/state"
	"hcj-play/internal/tui/util"
)

// View renders buffer tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	if !noColor && os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	return chipStyle(t).Render(label)
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.PENDING:
		return "Pending"
	case state.NEVER_RUN:
		return "Not run"
	case state.DELTA:
		return fmt.Sprintf("%+d", t.Value)
	case state.LINES:
		return fmt.Sprintf("Ln %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Ch %d", t.Value)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag) lipgloss.Style {
	p := util.DefaultPalette()
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	white := lipgloss.Color("#FFFFFF")
	switch t.Kind {
	case state.PENDING:
		return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
	case state.NEVER_RUN:
		return base.Background(p.Primary).Foreground(white)
	case state.DELTA:
		if t.Value < 0 {
			return base.Background(p.Danger).Foreground(white)
		}
		return base.Background(p.Success).Foreground(white)
	case state.LINES:
		return base.Background(p.Muted).Foreground(white)
	case state.CHARS:
		return base.Background(p.MutedDark).Foreground(white)
	default:
		return base
	}
}
