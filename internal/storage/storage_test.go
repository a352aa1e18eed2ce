package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[Backend]func() Slot {
	dir := t.TempDir()
	return map[Backend]func() Slot{
		BackendFile: func() Slot {
			s, err := OpenFile(filepath.Join(dir, "storage.json"))
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func() Slot {
			s, err := OpenSQLite(filepath.Join(dir, "storage.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestSlotRoundTripAcrossReopen(t *testing.T) {
	for backend, open := range openAll(t) {
		t.Run(string(backend), func(t *testing.T) {
			s := open()
			_, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.False(t, ok, "fresh slot should be empty")

			require.NoError(t, s.Set("k", `{"HTML":"<p>"}`))
			require.NoError(t, s.Set("k", `{"HTML":"<h1>"}`))
			require.NoError(t, s.Close())

			s = open()
			defer s.Close()
			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"HTML":"<h1>"}`, v)
		})
	}
}

func TestSlotClosed(t *testing.T) {
	for backend, open := range openAll(t) {
		t.Run(string(backend), func(t *testing.T) {
			s := open()
			require.NoError(t, s.Close())
			_, _, err := s.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
		})
	}
}

func TestMemorySlot(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("a", "1"))
	v, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestFileCorruptIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, ok, err := f.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set("k", "v"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k": "v"`)
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, b)

	b, err = ParseBackend("SQLite")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)

	_, err = ParseBackend("redis")
	assert.Error(t, err)
}

func TestOpenMemoryBackend(t *testing.T) {
	s, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.Equal(t, "", DefaultPath(BackendMemory, "x"))
	assert.Equal(t, filepath.Join("x", "storage.db"), DefaultPath(BackendSQLite, "x"))
}
