package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcj-play/internal/buffer"
	"hcj-play/internal/compose"
	"hcj-play/internal/preview"
	"hcj-play/internal/storage"
	"hcj-play/internal/trigger"
	"hcj-play/internal/tui/state"
)

type harness struct {
	store   *buffer.Store
	surface *preview.Surface
	trig    *trigger.Controller
	copied  []string
}

func newHarness(t *testing.T, slot storage.Slot, mode state.EditorMode) (*harness, Model) {
	t.Helper()
	h := &harness{surface: preview.NewSurface()}
	h.store = buffer.Open(slot, buffer.DefaultKey)
	h.store.Initialize()
	h.trig = trigger.New(h.store, h.surface)
	m := New(Options{
		Store:     h.store,
		Trigger:   h.trig,
		TabSize:   2,
		StartMode: mode,
		NoColor:   true,
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	return h, m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, runes(string(r)))
	}
	return m
}

var size = tea.WindowSizeMsg{Width: 100, Height: 30}

func TestInitialComposeOnFirstSize(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.INSERT)
	assert.Equal(t, 0, h.trig.Fired())
	assert.True(t, h.surface.Current().IsZero())

	m = send(t, m, size)
	assert.True(t, m.State().Ready)
	assert.Equal(t, 1, h.trig.Fired())
	doc := h.surface.Current()
	assert.Equal(t, "initial", doc.Reason)
	assert.Equal(t, compose.Compose(buffer.Set{}), doc.HTML)

	send(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Equal(t, 1, h.trig.Fired(), "resize must not fire again")
}

func TestTypingPersistsWithoutPublishing(t *testing.T) {
	slot := storage.NewMemory()
	h, m := newHarness(t, slot, state.INSERT)
	m = send(t, m, size)
	m = typeText(t, m, "<b>")

	assert.Equal(t, "<b>", h.store.Content(buffer.Markup))
	assert.Equal(t, 1, h.trig.Fired())

	raw, ok, err := slot.Get(buffer.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"HTML":"<b>","CSS":"","Javascript":""}`, raw)
	_ = m
}

func TestRunKeyPublishesLatestEditAndIsConsumed(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.INSERT)
	m = send(t, m, size)
	m = typeText(t, m, "hi")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, 2, h.trig.Fired())
	doc := h.surface.Current()
	assert.Equal(t, "keycombo", doc.Reason)
	assert.Contains(t, doc.HTML, "<body>hi<script>")
	assert.Equal(t, "hi", m.EditorValue(), "run key must not reach the editor")
	assert.Equal(t, doc.Rev, m.State().LastRev)
}

func TestTabSwitchingLeavesContentAlone(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Set(buffer.DefaultKey, `{"HTML":"<p>","CSS":"p{}","Javascript":"x()"}`))
	h, m := newHarness(t, slot, state.CMD)
	m = send(t, m, size)
	before := h.store.Snapshot()

	m = send(t, m, runes("2"))
	assert.Equal(t, buffer.Style, m.State().Active)
	assert.Equal(t, "p{}", m.EditorValue())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, buffer.Script, m.State().Active)
	assert.Equal(t, "x()", m.EditorValue())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, buffer.Markup, m.State().Active)
	assert.Equal(t, "<p>", m.EditorValue())

	assert.Equal(t, before, h.store.Snapshot())
	assert.Equal(t, 1, h.trig.Fired())
}

func TestEditsGoToActiveBufferOnly(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.CMD)
	m = send(t, m, size, runes("3"), runes("i"))
	require.Equal(t, state.INSERT, m.State().Mode)
	m = typeText(t, m, "go()")

	snap := h.store.Snapshot()
	assert.Equal(t, "go()", snap.Script)
	assert.Empty(t, snap.Markup)
	assert.Empty(t, snap.Style)
}

func TestLoadNormalizesCRLFAndTabsOnlyOnEdit(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Set(buffer.DefaultKey, `{"HTML":"","CSS":"","Javascript":"function f() {\r\n\treturn 1;\r\n}"}`))
	h, m := newHarness(t, slot, state.CMD)
	m = send(t, m, size, runes("3"))

	assert.True(t, m.State().Normalized)
	assert.Contains(t, m.View(), "[normalized]")
	assert.Equal(t, "function f() {\r\n\treturn 1;\r\n}", h.store.Content(buffer.Script), "binding alone saves nothing")

	m = send(t, m, runes("i"), runes("x"))
	assert.Equal(t, "xfunction f() {\n  return 1;\n}", h.store.Content(buffer.Script))
	assert.False(t, m.State().Normalized)
}

func TestUnrepresentableBufferIsReadOnly(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Set(buffer.DefaultKey, `{"HTML":"","CSS":"","Javascript":"beep\u0007"}`))
	h, m := newHarness(t, slot, state.CMD)
	m = send(t, m, size, runes("3"))
	require.True(t, m.State().ReadOnly)
	assert.Contains(t, m.View(), "[read-only]")

	m = send(t, m, runes("i"), runes("x"))
	assert.Equal(t, "beep\a", h.store.Content(buffer.Script))
	assert.Contains(t, m.State().Notice, "read-only")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("1"))
	assert.False(t, m.State().ReadOnly)
}

func TestInsertModeTypesDigits(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.INSERT)
	m = send(t, m, size)
	m = typeText(t, m, "12")
	assert.Equal(t, buffer.Markup, m.State().Active)
	assert.Equal(t, "12", h.store.Content(buffer.Markup))
}

func TestRemoteRunRequest(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.INSERT)
	m = send(t, m, size)
	req, reply := NewRunRequest()
	send(t, m, req)

	require.NoError(t, <-reply)
	assert.Equal(t, "remote", h.surface.Current().Reason)
}

type failingSlot struct{ *storage.Memory }

func (failingSlot) Set(string, string) error { return errors.New("disk full") }

func TestPersistFailureBecomesNotice(t *testing.T) {
	h, m := newHarness(t, failingSlot{storage.NewMemory()}, state.INSERT)
	m = send(t, m, size)
	m = typeText(t, m, "a")

	assert.Equal(t, "a", h.store.Content(buffer.Markup), "memory copy still updated")
	assert.Contains(t, m.State().Notice, "disk full")
}

func TestCopyComposesCurrentBuffers(t *testing.T) {
	h, m := newHarness(t, storage.NewMemory(), state.INSERT)
	m = send(t, m, size)
	m = typeText(t, m, "x")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("y"))

	require.Len(t, h.copied, 1)
	assert.Equal(t, compose.Compose(h.store.Snapshot()), h.copied[0])
	assert.Contains(t, m.State().Notice, "Copied")
}

func TestQuitKeys(t *testing.T) {
	_, m := newHarness(t, storage.NewMemory(), state.CMD)
	m = send(t, m, size)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpAndDiffViews(t *testing.T) {
	_, m := newHarness(t, storage.NewMemory(), state.CMD)
	m = send(t, m, size, runes("?"))
	assert.True(t, m.State().ShowHelp)
	assert.Contains(t, m.View(), "Help (Mode: CMD)")
	assert.Contains(t, m.View(), "ctrl+s: run")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("d"))
	assert.False(t, m.State().ShowHelp)
	assert.True(t, m.State().ShowDiff)
	assert.Contains(t, m.View(), "No changes since last run")
}

func TestViewShowsTabsAndStatus(t *testing.T) {
	_, m := newHarness(t, storage.NewMemory(), state.INSERT)
	assert.Contains(t, m.View(), "starting")

	m = send(t, m, size)
	out := m.View()
	for _, want := range []string{"<index.html>", "style.css", "script.js", "Run (ctrl+s)", "[INSERT]", "html"} {
		assert.Contains(t, out, want)
	}
}
