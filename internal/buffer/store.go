// Package buffer holds the three playground buffers (markup, styles,
// script), which one is shown in the editor, and their persistence.
package buffer

import (
	"encoding/json"
	"fmt"

	"hcj-play/internal/storage"
)

// DefaultKey is the storage key the snapshot lives under.
const DefaultKey = "hcj-play.buffers"

// Store is the single live Set plus the active selector. Every content
// change is written through to the slot before SetContent returns.
type Store struct {
	slot   storage.Slot
	key    string
	set    Set
	active Name

	// Debugf, when set, receives the reason a snapshot was discarded.
	Debugf func(format string, args ...any)
}

// Open binds a store to a slot. The store starts empty; call Initialize
// to load the persisted snapshot.
func Open(slot storage.Slot, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{slot: slot, key: key, active: Markup}
}

// Initialize loads the persisted snapshot. An absent, unreadable or
// malformed snapshot leaves all three buffers empty; it never fails.
// It reports whether a snapshot was restored.
func (s *Store) Initialize() bool {
	ok, err := s.Reload()
	if err != nil {
		s.debugf("%v", err)
		s.set = Set{}
	}
	return ok
}

// Reload is Initialize for callers that must tell a failed read from an
// empty one: a slot read error is returned and the set is left as it was.
// Absent and malformed snapshots still load as empty buffers.
func (s *Store) Reload() (bool, error) {
	if s.slot == nil {
		s.set = Set{}
		return false, nil
	}
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		return false, fmt.Errorf("buffer: read snapshot: %w", err)
	}
	s.set = Set{}
	if !ok {
		return false, nil
	}
	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		s.debugf("buffer: discard snapshot: %v", err)
		return false, nil
	}
	s.set = set
	return true, nil
}

// SetContent replaces the content of one buffer and persists the whole
// set. The in-memory set is updated even when the write fails.
func (s *Store) SetContent(n Name, content string) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, int(n))
	}
	s.set = s.set.With(n, content)
	return s.persist()
}

// Snapshot returns a copy of the current set.
func (s *Store) Snapshot() Set { return s.set }

// Content returns one buffer's current content.
func (s *Store) Content(n Name) string { return s.set.Get(n) }

// Select changes which buffer the editor shows. Contents are untouched.
func (s *Store) Select(n Name) error {
	if !n.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, int(n))
	}
	s.active = n
	return nil
}

// Active returns the selected buffer.
func (s *Store) Active() Name { return s.active }

func (s *Store) persist() error {
	if s.slot == nil {
		return nil
	}
	data, err := json.Marshal(s.set)
	if err != nil {
		return fmt.Errorf("buffer: encode snapshot: %w", err)
	}
	if err := s.slot.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("buffer: persist snapshot: %w", err)
	}
	return nil
}

func (s *Store) debugf(format string, args ...any) {
	if s.Debugf != nil {
		s.Debugf(format, args...)
	}
}
