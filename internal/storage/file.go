package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in one JSON object on disk. Each Set rewrites the
// whole file through a temp file and rename, so a crash mid-write leaves
// the previous contents in place.
type File struct {
	mu     sync.Mutex
	path   string
	vals   map[string]string
	closed bool
}

// OpenFile loads path if it exists. A missing file is an empty slot; an
// unreadable or corrupt file is also treated as empty so the caller falls
// back to defaults instead of failing to start. The corrupt file is only
// replaced on the next Set.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file storage: empty path")
	}
	f := &File{path: path, vals: map[string]string{}}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("file storage: read %s: %w", path, err)
	}
	var vals map[string]string
	if err := json.Unmarshal(data, &vals); err == nil && vals != nil {
		f.vals = vals
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.vals[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	next := make(map[string]string, len(f.vals)+1)
	for k, v := range f.vals {
		next[k] = v
	}
	next[key] = value
	if err := writeJSONAtomic(f.path, next); err != nil {
		return fmt.Errorf("file storage: %w", err)
	}
	f.vals = next
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
