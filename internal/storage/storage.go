// Package storage provides the durable key-value slot the playground keeps
// its buffers in. It plays the role a browser's localStorage plays for a
// web playground: string keys, string values, synchronous writes.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrClosed is returned by operations on a closed slot.
var ErrClosed = errors.New("storage closed")

// Slot is a synchronous string key-value store.
type Slot interface {
	// Get returns the value under key. ok is false when nothing is stored.
	Get(key string) (value string, ok bool, err error)
	// Set replaces the value under key.
	Set(key, value string) error
	Close() error
}

// Backend names a Slot implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendFile, BackendSQLite, BackendMemory}

// ParseBackend validates a backend name from config or flags.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if b == "" {
		return BackendFile, nil
	}
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown storage backend %q (want file|sqlite|memory)", s)
}

// DefaultPath returns the backend's file inside the state directory.
func DefaultPath(b Backend, stateDir string) string {
	switch b {
	case BackendSQLite:
		return filepath.Join(stateDir, "storage.db")
	case BackendFile:
		return filepath.Join(stateDir, "storage.json")
	default:
		return ""
	}
}

// Open returns the slot for backend b at path.
func Open(b Backend, path string) (Slot, error) {
	switch b {
	case BackendFile, "":
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", b)
	}
}
