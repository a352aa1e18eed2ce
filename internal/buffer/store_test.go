package buffer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcj-play/internal/storage"
)

func TestInitializeAbsentIsEmpty(t *testing.T) {
	s := Open(storage.NewMemory(), "")
	assert.False(t, s.Initialize())
	assert.Equal(t, Set{}, s.Snapshot())
	assert.Equal(t, Markup, s.Active())
}

func TestInitializeFallbackOnCorruptSnapshot(t *testing.T) {
	cases := map[string]string{
		"not json":      "{oops",
		"array":         `["a","b"]`,
		"null":          `null`,
		"number value":  `{"HTML":1,"CSS":"","Javascript":""}`,
		"string":        `"HTML"`,
		"nested object": `{"HTML":{"x":1}}`,
		"truncated":     `{"HTML":"<h1>`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			slot := storage.NewMemory()
			require.NoError(t, slot.Set(DefaultKey, raw))
			var reasons []string
			s := Open(slot, DefaultKey)
			s.Debugf = func(format string, args ...any) { reasons = append(reasons, format) }

			assert.False(t, s.Initialize())
			assert.Equal(t, Set{}, s.Snapshot())
			assert.NotEmpty(t, reasons)
		})
	}
}

func TestInitializeMissingKeysAreEmpty(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Set(DefaultKey, `{"CSS":"p{}","extra":42}`))
	s := Open(slot, DefaultKey)
	assert.True(t, s.Initialize())
	assert.Equal(t, Set{Style: "p{}"}, s.Snapshot())
}

func TestPersistenceRoundTrip(t *testing.T) {
	for _, n := range Names {
		t.Run(n.String(), func(t *testing.T) {
			slot := storage.NewMemory()
			s := Open(slot, DefaultKey)
			s.Initialize()
			require.NoError(t, s.SetContent(n, "content for "+n.String()+"\n\ttabs & <tags> \"quotes\" ünïcode"))

			reloaded := Open(slot, DefaultKey)
			require.True(t, reloaded.Initialize())
			assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
			for _, other := range Names {
				if other != n {
					assert.Equal(t, "", reloaded.Content(other))
				}
			}
		})
	}

	t.Run("combined", func(t *testing.T) {
		slot := storage.NewMemory()
		s := Open(slot, DefaultKey)
		s.Initialize()
		require.NoError(t, s.SetContent(Markup, "<h1>Hi</h1>"))
		require.NoError(t, s.SetContent(Style, "h1{color:red}"))
		require.NoError(t, s.SetContent(Script, "console.log(1)"))
		require.NoError(t, s.SetContent(Markup, "<h2>Bye</h2>"))

		reloaded := Open(slot, DefaultKey)
		require.True(t, reloaded.Initialize())
		assert.Equal(t, Set{Markup: "<h2>Bye</h2>", Style: "h1{color:red}", Script: "console.log(1)"}, reloaded.Snapshot())
	})
}

func TestSetContentLeavesOthersUntouched(t *testing.T) {
	s := Open(storage.NewMemory(), "")
	s.Initialize()
	require.NoError(t, s.SetContent(Style, "a"))
	require.NoError(t, s.SetContent(Script, "b"))
	require.NoError(t, s.SetContent(Style, "c"))
	assert.Equal(t, Set{Style: "c", Script: "b"}, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := Open(storage.NewMemory(), "")
	s.Initialize()
	require.NoError(t, s.SetContent(Markup, "before"))
	snap := s.Snapshot()
	require.NoError(t, s.SetContent(Markup, "after"))
	assert.Equal(t, "before", snap.Markup)
}

func TestSelectNeverChangesContent(t *testing.T) {
	s := Open(storage.NewMemory(), "")
	s.Initialize()
	require.NoError(t, s.SetContent(Markup, "m"))
	require.NoError(t, s.SetContent(Style, "s"))
	before := s.Snapshot()
	for _, n := range []Name{Script, Style, Markup, Script} {
		require.NoError(t, s.Select(n))
		assert.Equal(t, n, s.Active())
		assert.Equal(t, before, s.Snapshot())
	}
	assert.ErrorIs(t, s.Select(Name(7)), ErrUnknownBuffer)
	assert.ErrorIs(t, s.SetContent(Name(-1), "x"), ErrUnknownBuffer)
}

type failingSlot struct{ storage.Memory }

func (*failingSlot) Set(string, string) error { return errors.New("disk full") }

func TestSetContentReportsWriteFailure(t *testing.T) {
	s := Open(&failingSlot{}, "")
	s.Initialize()
	err := s.SetContent(Markup, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "x", s.Content(Markup))
}

type unreadableSlot struct {
	storage.Memory
	err error
}

func (u *unreadableSlot) Get(string) (string, bool, error) { return "", false, u.err }

func TestReloadReportsReadFailure(t *testing.T) {
	slot := &unreadableSlot{}
	s := Open(slot, "")
	s.set = Set{Markup: "<p>"}

	slot.err = errors.New("database is locked")
	ok, err := s.Reload()
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, "<p>", s.Content(Markup), "failed read leaves the set alone")

	assert.False(t, s.Initialize())
	assert.Empty(t, s.Content(Markup), "Initialize still falls back to empty")
}

func TestSnapshotJSONShape(t *testing.T) {
	slot := storage.NewMemory()
	s := Open(slot, "k")
	s.Initialize()
	require.NoError(t, s.SetContent(Script, "x"))
	raw, ok, err := slot.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"HTML":"","CSS":"","Javascript":"x"}`, raw)
}
