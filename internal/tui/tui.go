package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hcj-play/internal/buffer"
	"hcj-play/internal/compose"
	"hcj-play/internal/logging"
	"hcj-play/internal/preview"
	"hcj-play/internal/trigger"
	"hcj-play/internal/tui/state"
	"hcj-play/internal/tui/util"
	"hcj-play/internal/tui/widgets/diff"
	"hcj-play/internal/tui/widgets/editor"
	"hcj-play/internal/tui/widgets/helpoverlay"
	"hcj-play/internal/tui/widgets/statusbar"
	"hcj-play/internal/tui/widgets/tabbar"
	chips "hcj-play/internal/tui/widgets/tagchips"
)

// Options wires the playground UI to its collaborators.
type Options struct {
	Store      *buffer.Store
	Trigger    *trigger.Controller
	PreviewURL string
	TabSize    int
	StartMode  state.EditorMode
	NoColor    bool
	Logger     *logging.Logger

	// Events streams preview server activity (one line per event).
	Events <-chan string

	// Copy writes to the system clipboard; defaults to atotto/clipboard.
	Copy func(string) error
}

// RunRequest asks the UI loop to fire a Remote run. Send it with
// tea.Program.Send and wait on the reply channel.
type RunRequest struct {
	reply chan error
}

// NewRunRequest returns a request and the channel its outcome lands on.
func NewRunRequest() (RunRequest, <-chan error) {
	ch := make(chan error, 1)
	return RunRequest{reply: ch}, ch
}

type eventMsg string

func waitEvent(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(s)
	}
}

// Model is the bubbletea model for the playground.
type Model struct {
	store  *buffer.Store
	trig   *trigger.Controller
	log    *logging.Logger
	copy   func(string) error
	events <-chan string

	ui      state.UIState
	keys    keyMap
	editor  editor.Editor
	help    help.Model
	noColor bool
	lastLog string
}

// New builds the model and binds the editor to the store's active buffer.
func New(opts Options) Model {
	cp := opts.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}
	ui := state.UIState{
		Mode:       opts.StartMode,
		Active:     opts.Store.Active(),
		MinCol:     20,
		PreviewURL: opts.PreviewURL,
	}
	ed := editor.NewEditor(opts.TabSize)
	ui = loaded(ui, ui.Active, ed.Bind(ui.Active, opts.Store.Content(ui.Active)))
	return Model{
		store:   opts.Store,
		trig:    opts.Trigger,
		log:     opts.Logger,
		copy:    cp,
		events:  opts.Events,
		ui:      ui,
		keys:    defaultKeys(),
		editor:  ed,
		help:    help.New(),
		noColor: util.NoColor(opts.NoColor),
	}
}

// NewProgram runs the model full screen.
func NewProgram(m Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

// State exposes the UI state for callers and tests.
func (m Model) State() state.UIState { return m.ui }

// EditorValue is the text currently shown in the editor.
func (m Model) EditorValue() string { return m.editor.Value() }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("hcj-play"), textarea.Blink}
	if m.events != nil {
		cmds = append(cmds, waitEvent(m.events))
	}
	return tea.Batch(cmds...)
}

// Update handles all TUI interactions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		m.layout()
		var first bool
		m.ui, first = state.MarkReady(m.ui)
		if first {
			m.fire(trigger.Initial)
		}
		return m, nil

	case RunRequest:
		err := m.fire(trigger.Remote)
		if msg.reply != nil {
			msg.reply <- err
		}
		return m, nil

	case eventMsg:
		m.lastLog = string(msg)
		return m, waitEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Pass(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}

	// The run combo never reaches the editor.
	if doc, ok, err := m.trig.HandleKey(msg); ok {
		m.published(doc, trigger.KeyCombo, err)
		return m, nil
	}

	if m.ui.ShowHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Close) {
			m.ui = state.ToggleHelp(m.ui)
		}
		return m, nil
	}

	if globalTab(k) {
		m.selectTab(tabFor(m.keys, msg, m.ui.Active))
		return m, nil
	}

	if m.ui.Mode == state.CMD {
		if model, cmd, ok := m.command(msg); ok {
			return model, cmd
		}
		if m.ui.ShowDiff {
			if key.Matches(msg, m.keys.Close) {
				m.ui = state.ToggleDiff(m.ui)
			}
			return m, nil
		}
	}

	var res editor.Result
	var cmd tea.Cmd
	m.editor, res, cmd = m.editor.Update(m.ui.Mode, msg)
	if res.Mode != m.ui.Mode {
		m.ui = state.EnterMode(m.ui, res.Mode)
	}
	if res.Refused {
		m.ui = state.SetNotice(m.ui, m.ui.Active.FileName()+" is read-only; edit it with hcj-play set")
	}
	if res.Changed {
		m.persist()
	}
	return m, cmd
}

// command handles app-level keys in CMD mode. Editor motions fall through.
func (m Model) command(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.ui = state.ToggleHelp(m.ui)
	case key.Matches(msg, m.keys.Diff):
		m.ui = state.ToggleDiff(m.ui)
	case key.Matches(msg, m.keys.DiffView):
		m.ui = state.ToggleView(m.ui)
		m.ui = state.Resize(m.ui, m.ui.Width, m.ui.Height)
	case key.Matches(msg, m.keys.Copy):
		m.copyDocument()
	case key.Matches(msg, m.keys.Run):
		m.fire(trigger.Manual)
	case key.Matches(msg, m.keys.NextTab):
		m.selectTab(m.ui.Active.Next())
	case key.Matches(msg, m.keys.PrevTab):
		m.selectTab(m.ui.Active.Prev())
	case key.Matches(msg, m.keys.Markup, m.keys.Style, m.keys.Script):
		m.selectTab(tabFor(m.keys, msg, m.ui.Active))
	default:
		return m, nil, false
	}
	return m, nil, true
}

func tabFor(keys keyMap, msg tea.KeyMsg, cur buffer.Name) buffer.Name {
	switch {
	case key.Matches(msg, keys.Markup):
		return buffer.Markup
	case key.Matches(msg, keys.Style):
		return buffer.Style
	case key.Matches(msg, keys.Script):
		return buffer.Script
	}
	return cur
}

// selectTab rebinds the editor; buffer contents are left as they are.
func (m *Model) selectTab(n buffer.Name) {
	if n == m.ui.Active {
		return
	}
	if err := m.store.Select(n); err != nil {
		m.ui = state.SetNotice(m.ui, err.Error())
		return
	}
	m.ui = state.Select(m.ui, n)
	m.ui = loaded(m.ui, n, m.editor.Bind(n, m.store.Content(n)))
	m.log.Debugf("tab: %s", n)
}

func loaded(s state.UIState, n buffer.Name, load editor.Load) state.UIState {
	return state.Loaded(s, n.FileName(), load == editor.Normalized, load == editor.ReadOnly)
}

// persist saves the editor text as the whole buffer. A read-only editor
// never reaches here because it refuses every edit.
func (m *Model) persist() {
	if err := m.store.SetContent(m.editor.Name(), m.editor.Value()); err != nil {
		m.log.Errorf("%v", err)
		m.ui = state.SetNotice(m.ui, "Not saved: "+err.Error())
		return
	}
	m.ui = state.Saved(m.ui)
}

func (m *Model) fire(reason trigger.Reason) error {
	doc, err := m.trig.Fire(reason)
	m.published(doc, reason, err)
	return err
}

func (m *Model) published(doc preview.Document, reason trigger.Reason, err error) {
	if err != nil {
		m.log.Errorf("run (%s): %v", reason, err)
		m.ui = state.SetNotice(m.ui, "Run failed: "+err.Error())
		return
	}
	m.log.Infof("published %s (%s, %d bytes)", doc.Rev, reason, len(doc.HTML))
	m.ui = state.Published(m.ui, doc.Rev, string(reason))
}

func (m *Model) copyDocument() {
	html := compose.Compose(m.store.Snapshot())
	if err := m.copy(html); err != nil {
		m.log.Errorf("clipboard: %v", err)
		m.ui = state.SetNotice(m.ui, "Copy failed: "+err.Error())
		return
	}
	m.ui = state.SetNotice(m.ui, fmt.Sprintf("Copied %d bytes", len(html)))
}

// pending reports whether a buffer differs from what was last run.
func (m Model) pending(n buffer.Name) bool {
	last, ok := m.trig.Last()
	return !ok || last.Get(n) != m.store.Content(n)
}

// layout sizes the editor to the window minus the chrome lines.
func (m *Model) layout() {
	m.help.Width = m.ui.Width
	m.editor.SetSize(m.ui.Width, m.ui.Height-chromeLines)
}

// tab bar, status bar, short help, event line
const chromeLines = 4

// ===== Views =====

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	if !m.ui.Ready {
		return titleStyle.Render("hcj-play") + faintStyle.Render(" starting...") + "\n"
	}
	var b strings.Builder
	b.WriteString(tabbar.NewTabBar().View(m.ui, m.pending, m.trig.Keys().Help().Key, m.noColor))
	b.WriteString("\n")

	switch {
	case m.ui.ShowHelp:
		b.WriteString(helpoverlay.NewHelpOverlay().View(m.ui, m.helpSections()))
	case m.ui.ShowDiff:
		last, _ := m.trig.Last()
		n := m.ui.Active
		b.WriteString(diff.NewDiffView().View(m.ui, last.Get(n), m.store.Content(n)))
	default:
		b.WriteString(m.editor.View())
		b.WriteString("\n")
	}

	line, col := m.editor.Cursor()
	last, ran := m.trig.Last()
	tags := util.ComputeTags(m.store.Content(m.ui.Active), last.Get(m.ui.Active), ran)
	b.WriteString(statusbar.NewStatusBar().View(m.ui, statusbar.Info{
		Language: m.editor.Language(),
		Line:     line,
		Col:      col,
		Chips:    chips.View(tags, m.noColor),
	}))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.shortHelp()))
	if m.lastLog != "" {
		b.WriteString("\n" + faintStyle.Render(m.lastLog))
	}
	return b.String()
}

func (m Model) shortHelp() []key.Binding {
	if m.ui.Mode == state.INSERT {
		return []key.Binding{m.trig.Keys(), m.keys.Normal}
	}
	return []key.Binding{m.trig.Keys(), m.keys.NextTab, m.keys.Insert, m.keys.Diff, m.keys.Help, m.keys.Quit}
}

func (m Model) helpSections() []helpoverlay.Section {
	return []helpoverlay.Section{
		{Title: "Preview", Keys: []key.Binding{m.trig.Keys(), m.keys.Run, m.keys.Copy}},
		{Title: "Tabs", Keys: []key.Binding{m.keys.Markup, m.keys.Style, m.keys.Script, m.keys.NextTab, m.keys.PrevTab}},
		{Title: "View", Keys: []key.Binding{m.keys.Diff, m.keys.DiffView}},
		{Title: "Editor", Keys: []key.Binding{m.keys.Insert, m.keys.Normal, m.keys.Motion}},
		{Title: "App", Keys: []key.Binding{m.keys.Help, m.keys.Quit}},
	}
}
