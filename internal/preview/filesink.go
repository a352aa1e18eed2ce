package preview

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes every published document to Path, replacing the file
// through a rename so readers never see a partial document.
type FileSink struct {
	Path string
}

func (f FileSink) Publish(doc Document) error {
	if f.Path == "" {
		return nil
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("preview: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("preview: write %s: %w", f.Path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(doc.HTML); err != nil {
		tmp.Close()
		return fmt.Errorf("preview: write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("preview: write %s: %w", f.Path, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("preview: write %s: %w", f.Path, err)
	}
	return nil
}
