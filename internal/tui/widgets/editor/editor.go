package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"hcj-play/internal/buffer"
	"hcj-play/internal/tui/state"
)

// Result describes what a key did to the editor.
type Result struct {
	Mode    state.EditorMode // mode after the key
	Changed bool             // buffer content differs from before the key
	Refused bool             // key would have edited a read-only buffer
}

// Load reports how bound content made it into the text area.
type Load int

const (
	// Exact means the text area holds the content byte for byte.
	Exact Load = iota
	// Normalized means line endings or tabs were rewritten; the next edit
	// saves the rewritten form.
	Normalized
	// ReadOnly means the text area cannot hold the content unchanged, so
	// edits are refused and nothing is saved from this editor.
	ReadOnly
)

// Editor hosts the text area for whichever buffer is bound to it.
type Editor struct {
	area     textarea.Model
	name     buffer.Name
	tabSize  int
	readOnly bool
}

// NewEditor returns a focused editor with unlimited content size.
func NewEditor(tabSize int) Editor {
	if tabSize <= 0 {
		tabSize = 2
	}
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()
	return Editor{area: ta, tabSize: tabSize}
}

// Bind shows content for the named buffer. The cursor starts at the top.
//
// The text area rewrites what it is given (CR, tabs, control and invalid
// bytes, very long inputs). CRLF and tabs are normalized here so the
// result is predictable; anything else the text area would still alter
// leaves the buffer read-only.
func (e *Editor) Bind(name buffer.Name, content string) Load {
	e.name = name
	e.area.Placeholder = placeholder(name)
	want := Normalize(content, e.tabSize)
	e.area.SetValue(want)
	e.apply(key(tea.KeyCtrlHome))
	switch {
	case e.area.Value() != want:
		e.readOnly = true
		return ReadOnly
	case want != content:
		e.readOnly = false
		return Normalized
	default:
		e.readOnly = false
		return Exact
	}
}

// Normalize converts CRLF and lone CR to LF and expands each tab to
// tabSize spaces.
func Normalize(content string, tabSize int) string {
	if !strings.ContainsAny(content, "\r\t") {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.ReplaceAll(content, "\t", strings.Repeat(" ", tabSize))
}

// ReadOnly reports whether the bound buffer refuses edits.
func (e Editor) ReadOnly() bool { return e.readOnly }

// Name returns the bound buffer.
func (e Editor) Name() buffer.Name { return e.name }

// Language is the mode label shown for the bound buffer.
func (e Editor) Language() string { return e.name.Language() }

// Value returns the full buffer content.
func (e Editor) Value() string { return e.area.Value() }

// SetSize resizes the text area.
func (e *Editor) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	e.area.SetWidth(width)
	e.area.SetHeight(height)
}

// Cursor returns the 1-based line and column of the cursor.
func (e Editor) Cursor() (line, col int) {
	li := e.area.LineInfo()
	return e.area.Line() + 1, li.StartColumn + li.ColumnOffset + 1
}

// Update applies a key in the given mode.
func (e Editor) Update(mode state.EditorMode, msg tea.KeyMsg) (Editor, Result, tea.Cmd) {
	before := e.area.Value()
	line, col := e.Cursor()
	var res Result
	var cmd tea.Cmd
	if mode == state.INSERT {
		res, cmd = e.insert(msg)
	} else {
		res = e.command(msg)
	}
	res.Changed = e.area.Value() != before
	if res.Changed && e.readOnly {
		e.restore(before, line, col)
		return e, Result{Mode: res.Mode, Refused: true}, nil
	}
	return e, res, cmd
}

// restore puts back text the text area already accepted once, so it
// comes back unchanged, and returns the cursor to line:col (1-based).
func (e *Editor) restore(text string, line, col int) {
	e.area.SetValue(text)
	e.apply(key(tea.KeyCtrlHome))
	for e.area.Line() < line-1 {
		row, off := e.area.Line(), e.area.LineInfo().RowOffset
		e.apply(key(tea.KeyDown))
		if e.area.Line() == row && e.area.LineInfo().RowOffset == off {
			break
		}
	}
	e.area.SetCursor(col - 1)
}

func (e *Editor) insert(msg tea.KeyMsg) (Result, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return Result{Mode: state.CMD}, nil
	case tea.KeyTab:
		e.area.InsertString(strings.Repeat(" ", e.tabSize))
		return Result{Mode: state.INSERT}, nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return Result{Mode: state.INSERT}, cmd
}

// command maps vim-style motions onto the text area's own key bindings.
func (e *Editor) command(msg tea.KeyMsg) Result {
	res := Result{Mode: state.CMD}
	switch msg.String() {
	case "h", "left":
		e.apply(key(tea.KeyLeft))
	case "l", "right":
		e.apply(key(tea.KeyRight))
	case "j", "down":
		e.apply(key(tea.KeyDown))
	case "k", "up":
		e.apply(key(tea.KeyUp))
	case "0", "home":
		e.apply(key(tea.KeyHome))
	case "$", "end":
		e.apply(key(tea.KeyEnd))
	case "w":
		e.apply(alt(tea.KeyRight))
	case "b":
		e.apply(alt(tea.KeyLeft))
	case "g":
		e.apply(key(tea.KeyCtrlHome))
	case "G":
		e.apply(key(tea.KeyCtrlEnd))
	case "x", "delete":
		e.apply(key(tea.KeyDelete))
	case "D":
		e.apply(key(tea.KeyCtrlK))
	case "i":
		res.Mode = state.INSERT
	case "a":
		e.apply(key(tea.KeyRight))
		res.Mode = state.INSERT
	case "A":
		e.apply(key(tea.KeyEnd))
		res.Mode = state.INSERT
	case "I":
		e.apply(key(tea.KeyHome))
		res.Mode = state.INSERT
	case "o":
		e.apply(key(tea.KeyEnd), key(tea.KeyEnter))
		res.Mode = state.INSERT
	case "O":
		e.apply(key(tea.KeyHome), key(tea.KeyEnter), key(tea.KeyUp))
		res.Mode = state.INSERT
	}
	return res
}

func (e *Editor) apply(keys ...tea.KeyMsg) {
	for _, k := range keys {
		e.area, _ = e.area.Update(k)
	}
}

// View renders the text area.
func (e Editor) View() string { return e.area.View() }

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func alt(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t, Alt: true} }

func placeholder(n buffer.Name) string {
	switch n {
	case buffer.Markup:
		return "<h1>Hello</h1>"
	case buffer.Style:
		return "h1 { color: tomato; }"
	default:
		return "console.log('hello')"
	}
}

// Pass forwards non-key messages, such as cursor blinks, to the text area.
func (e Editor) Pass(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}
