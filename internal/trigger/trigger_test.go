package trigger

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
)

func newStore(t *testing.T) *buffer.Store {
	t.Helper()
	s := buffer.Open(storage.NewMemory(), "")
	s.Initialize()
	return s
}

func TestFireComposesCurrentSnapshot(t *testing.T) {
	store := newStore(t)
	surface := preview.NewSurface()
	c := New(store, surface)

	require.NoError(t, store.SetContent(buffer.Markup, "<h1>Hi</h1>"))
	doc, err := c.Fire(Manual)
	require.NoError(t, err)
	assert.Equal(t, compose.Compose(store.Snapshot()), doc.HTML)
	assert.Equal(t, "manual", doc.Reason)
	assert.Equal(t, doc, surface.Current())
}

func TestKeyComboSeesLatestEdit(t *testing.T) {
	store := newStore(t)
	surface := preview.NewSurface()
	// Registered once; every later edit must still be visible when it fires.
	c := New(store, surface)

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, store.SetContent(buffer.Script, content))
		_, handled, err := c.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlS})
		require.NoError(t, err)
		require.True(t, handled)
		got, ok := compose.Regions(surface.Current().HTML)
		require.True(t, ok)
		assert.Equal(t, content, got.Script)
	}
	assert.Equal(t, 3, c.Fired())
}

func TestHandleKeyIgnoresOtherKeys(t *testing.T) {
	c := New(newStore(t), preview.NewSurface())
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("s")},
		{Type: tea.KeyEnter},
		{Type: tea.KeyCtrlC},
	} {
		_, handled, err := c.HandleKey(msg)
		assert.NoError(t, err)
		assert.False(t, handled, msg.String())
	}
	assert.Equal(t, 0, c.Fired())
}

func TestWithKeysReplacesBinding(t *testing.T) {
	c := New(newStore(t), nil, WithKeys("ctrl+r"))
	_, handled, _ := c.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, handled)
	_, handled, _ = c.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, handled)
	assert.Equal(t, "ctrl+r", c.Keys().Help().Key)
}

func TestFireIsIdempotentForSameBuffers(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SetContent(buffer.Style, "p{}"))
	c := New(store, nil)
	a, err := c.Fire(Manual)
	require.NoError(t, err)
	b, err := c.Fire(KeyCombo)
	require.NoError(t, err)
	assert.Equal(t, a.HTML, b.HTML)
	assert.NotEqual(t, a.Rev, b.Rev)
}

func TestLastTracksFiredSnapshot(t *testing.T) {
	store := newStore(t)
	c := New(store, nil)
	_, ok := c.Last()
	assert.False(t, ok)

	require.NoError(t, store.SetContent(buffer.Markup, "a"))
	_, err := c.Fire(Initial)
	require.NoError(t, err)
	require.NoError(t, store.SetContent(buffer.Markup, "b"))

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, "a", last.Markup)
	assert.Equal(t, "initial", c.LastDocument().Reason)
}

func TestPublishErrorIsReportedAndHooked(t *testing.T) {
	var hooked error
	c := New(SourceFunc(func() buffer.Set { return buffer.Set{} }),
		preview.PublisherFunc(func(preview.Document) error { return errors.New("sink down") }),
		OnFire(func(_ preview.Document, err error) { hooked = err }))
	_, err := c.Fire(Remote)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, err, hooked)
}

func TestFailedLoadKeepsLastDocument(t *testing.T) {
	surface := preview.NewSurface()
	var readErr error
	src := LoadFunc(func() (buffer.Set, error) {
		return buffer.Set{Markup: "<p>kept</p>"}, readErr
	})
	c := New(src, surface)

	first, err := c.Fire(Initial)
	require.NoError(t, err)

	readErr = errors.New("database is locked")
	_, err = c.Fire(Remote)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")

	assert.Equal(t, first.Rev, surface.Current().Rev)
	assert.Equal(t, first.Rev, c.LastDocument().Rev)
	assert.Equal(t, 1, c.Fired())
	last, _ := c.Last()
	assert.Equal(t, "<p>kept</p>", last.Markup)
}
