package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"hcj-play/internal/tui/state"
)

var (
	delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	delChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	addChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint   = lipgloss.NewStyle().Faint(true)
	header  = lipgloss.NewStyle().Bold(true)
)

type DiffView struct{}

func NewDiffView() DiffView { return DiffView{} }

// View renders what changed in a buffer since the last run. For SideBySide
// it aligns two columns with a vertical separator. For Unified it prefixes
// lines with +/- markers. Changed line pairs get char-level highlights.
func (DiffView) View(s state.UIState, lastRun, current string) string {
	if lastRun == current {
		return "No changes since last run\n"
	}
	if s.View == state.SideBySide {
		return sideBySide(lastRun, current, s.Width)
	}
	return unified(lastRun, current)
}

// Line is one row of a line-mode diff. Pairing keeps inserted
// or removed lines from shifting every later pair out of alignment.
type Line struct {
	Op     dmp.Operation
	Old    string
	New    string
	Paired bool // an insertion that replaces Old
}

// Lines computes the aligned line pairs between before and after.
func Lines(before, after string) []Line {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(before, after)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

	var out []Line
	var pendingDel []string
	flush := func() {
		for _, l := range pendingDel {
			out = append(out, Line{Op: dmp.DiffDelete, Old: l})
		}
		pendingDel = nil
	}
	for _, df := range diffs {
		for _, l := range splitLines(df.Text) {
			switch df.Type {
			case dmp.DiffEqual:
				flush()
				out = append(out, Line{Op: dmp.DiffEqual, Old: l, New: l})
			case dmp.DiffDelete:
				pendingDel = append(pendingDel, l)
			case dmp.DiffInsert:
				if len(pendingDel) > 0 {
					out = append(out, Line{Op: dmp.DiffInsert, Old: pendingDel[0], New: l, Paired: true})
					pendingDel = pendingDel[1:]
					continue
				}
				out = append(out, Line{Op: dmp.DiffInsert, New: l})
			}
		}
	}
	flush()
	return out
}

// splitLines splits a line-mode diff chunk; every line in it ends with
// "\n" except possibly the last line of the text.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

func charDiff(before, after string) []dmp.Diff {
	d := dmp.New()
	diffs := d.DiffMain(before, after, false)
	return d.DiffCleanupSemantic(diffs)
}

func unified(before, after string) string {
	var b strings.Builder
	b.WriteString(header.Render("LAST RUN vs CURRENT (Unified)") + "\n")
	for _, l := range Lines(before, after) {
		switch {
		case l.Op == dmp.DiffEqual:
			fmt.Fprintf(&b, "  %s\n", faint.Render(l.Old))
		case l.Op == dmp.DiffDelete:
			fmt.Fprintf(&b, "%s%s\n", delLine.Render("- "), delLine.Render(l.Old))
		case !l.Paired:
			fmt.Fprintf(&b, "%s%s\n", addLine.Render("+ "), addLine.Render(l.New))
		default:
			var del, add strings.Builder
			for _, df := range charDiff(l.Old, l.New) {
				switch df.Type {
				case dmp.DiffDelete:
					del.WriteString(delChar.Render(df.Text))
				case dmp.DiffInsert:
					add.WriteString(addChar.Render(df.Text))
				case dmp.DiffEqual:
					del.WriteString(delLine.Render(df.Text))
					add.WriteString(addLine.Render(df.Text))
				}
			}
			fmt.Fprintf(&b, "%s%s\n", delLine.Render("- "), del.String())
			fmt.Fprintf(&b, "%s%s\n", addLine.Render("+ "), add.String())
		}
	}
	return b.String()
}

func sideBySide(before, after string, width int) string {
	const sep = " │ "
	colWidth := 40
	if width > 0 {
		colWidth = (width - len([]rune(sep))) / 2
		if colWidth < 10 {
			colWidth = 10
		}
	}
	var b strings.Builder
	b.WriteString(header.Render(pad("LAST RUN", colWidth)+sep+"CURRENT") + "\n")
	for _, l := range Lines(before, after) {
		left, right := clip(l.Old, colWidth), clip(l.New, colWidth)
		switch l.Op {
		case dmp.DiffEqual:
			fmt.Fprintf(&b, "%s%s%s\n", faint.Render(pad(left, colWidth)), sep, faint.Render(right))
		case dmp.DiffDelete:
			fmt.Fprintf(&b, "%s%s\n", delLine.Render(pad(left, colWidth)), sep)
		default:
			if !l.Paired {
				fmt.Fprintf(&b, "%s%s%s\n", pad("", colWidth), sep, addLine.Render(right))
				continue
			}
			fmt.Fprintf(&b, "%s%s%s\n", delLine.Render(pad(left, colWidth)), sep, addLine.Render(right))
		}
	}
	return b.String()
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s
}

func pad(s string, width int) string {
	if w := len([]rune(s)); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
