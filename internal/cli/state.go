package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// stateFileName records the running session inside the state directory,
// so status and run can find its preview server.
const stateFileName = "state.json"

// State describes a running edit or serve session.
type State struct {
	PID       int    `json:"pid"`
	Mode      string `json:"mode"` // edit|serve
	URL       string `json:"url"`
	StartedAt string `json:"started_at"`
}

func statePath(dir string) string { return filepath.Join(dir, stateFileName) }

func saveState(dir string, st State) error {
	if st.StartedAt == "" {
		st.StartedAt = time.Now().Format(time.RFC3339)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure state dir: %w", err)
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(dir), b, 0o644)
}

// loadState returns the recorded session, or false when none is recorded.
func loadState(dir string) (State, bool, error) {
	var st State
	b, err := os.ReadFile(statePath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return st, false, nil
	}
	if err != nil {
		return st, false, err
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, false, fmt.Errorf("parse %s: %w", statePath(dir), err)
	}
	return st, st.URL != "", nil
}

// clearState removes the record if it still belongs to this process.
func clearState(dir string) {
	st, ok, err := loadState(dir)
	if err != nil || !ok || st.PID != os.Getpid() {
		return
	}
	_ = os.Remove(statePath(dir))
}
