// Package config loads .hcj-play/config.yaml. Every field has a default,
// so a missing file is a valid configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hcj-play/internal/buffer"
	"hcj-play/internal/storage"
	"hcj-play/internal/trigger"
)

const (
	// StateDir is the per-project directory holding config, storage and logs.
	StateDir = ".hcj-play"
	// FileName is the config file inside StateDir.
	FileName = "config.yaml"

	DefaultPort = 5173
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const defaultConfigYAML = `# hcj-play configuration
version: 1

# Where the three buffers are kept between sessions.
# backend: file (JSON file), sqlite, or memory (nothing is kept).
storage:
  backend: file
  # path: .hcj-play/storage.json
  key: hcj-play.buffers

# Local preview server. If the port is taken the next free one is used.
preview:
  addr: 127.0.0.1
  port: 5173
  open_browser: false
  # Also write every composed document to this file.
  # out: .hcj-play/preview.html

editor:
  tab_size: 2
  run_keys: [ctrl+s, ctrl+enter]
  # insert or cmd
  start_mode: insert

log:
  # file: .hcj-play/logs/hcj-play.log
  # 0 errors, 1 info, 2 debug
  verbosity: 0
`

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
	Key     string `yaml:"key,omitempty"`
}

// PreviewConfig configures the preview server and file sink.
type PreviewConfig struct {
	Addr        string `yaml:"addr"`
	Port        int    `yaml:"port"`
	OpenBrowser bool   `yaml:"open_browser"`
	Out         string `yaml:"out,omitempty"`
}

// EditorConfig configures the terminal editor.
type EditorConfig struct {
	TabSize   int      `yaml:"tab_size"`
	RunKeys   []string `yaml:"run_keys"`
	StartMode string   `yaml:"start_mode"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File      string `yaml:"file,omitempty"`
	Verbosity int    `yaml:"verbosity"`
}

// Config models config.yaml plus the directory it was resolved against.
type Config struct {
	Version int           `yaml:"version"`
	Storage StorageConfig `yaml:"storage"`
	Preview PreviewConfig `yaml:"preview"`
	Editor  EditorConfig  `yaml:"editor"`
	Log     LogConfig     `yaml:"log"`

	// Dir is the state directory; relative paths resolve against its parent.
	Dir string `yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default(dir string) Config {
	return Config{
		Version: 1,
		Storage: StorageConfig{Backend: string(storage.BackendFile), Key: buffer.DefaultKey},
		Preview: PreviewConfig{Addr: "127.0.0.1", Port: DefaultPort},
		Editor: EditorConfig{
			TabSize:   2,
			RunKeys:   append([]string(nil), trigger.DefaultRunKeys...),
			StartMode: "insert",
		},
		Dir: dir,
	}
}

// Path returns the config file for a state directory.
func Path(dir string) string { return filepath.Join(dir, FileName) }

// Load reads Path(dir) over the defaults. A missing file yields the
// defaults; a file that does not parse or validate is an error.
func Load(dir string) (Config, error) {
	return LoadFile(dir, Path(dir))
}

// LoadFile is Load with an explicit config file.
func LoadFile(dir, path string) (Config, error) {
	c := Default(dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Dir = dir
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks field values and fills blanks left by a partial file.
func (c *Config) Validate() error {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Version != 1 {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalid, c.Version)
	}
	b, err := storage.ParseBackend(c.Storage.Backend)
	if err != nil {
		return fmt.Errorf("%w: storage.backend: %v", ErrInvalid, err)
	}
	c.Storage.Backend = string(b)
	if c.Storage.Key == "" {
		c.Storage.Key = buffer.DefaultKey
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = "127.0.0.1"
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("%w: preview.port %d out of range", ErrInvalid, c.Preview.Port)
	}
	if c.Editor.TabSize == 0 {
		c.Editor.TabSize = 2
	}
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		return fmt.Errorf("%w: editor.tab_size %d out of range 1..16", ErrInvalid, c.Editor.TabSize)
	}
	keys := c.Editor.RunKeys[:0]
	for _, k := range c.Editor.RunKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = append(keys, trigger.DefaultRunKeys...)
	}
	c.Editor.RunKeys = keys
	switch strings.ToLower(c.Editor.StartMode) {
	case "", "insert":
		c.Editor.StartMode = "insert"
	case "cmd":
		c.Editor.StartMode = "cmd"
	default:
		return fmt.Errorf("%w: editor.start_mode %q (want insert|cmd)", ErrInvalid, c.Editor.StartMode)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 2 {
		return fmt.Errorf("%w: log.verbosity %d (want 0..2)", ErrInvalid, c.Log.Verbosity)
	}
	return nil
}

// StoragePath resolves the storage file for the configured backend.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.resolve(c.Storage.Path)
	}
	return storage.DefaultPath(storage.Backend(c.Storage.Backend), c.Dir)
}

// LogPath resolves the log file.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.resolve(c.Log.File)
	}
	return filepath.Join(c.Dir, "logs", "hcj-play.log")
}

// OutPath resolves the optional preview file sink ("" when disabled).
func (c Config) OutPath() string {
	if c.Preview.Out == "" {
		return ""
	}
	return c.resolve(c.Preview.Out)
}

// ListenAddr is addr:port for the preview server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Preview.Addr, c.Preview.Port)
}

// resolve makes p absolute against the project directory, the parent of
// the state directory.
func (c Config) resolve(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(h, p[2:])
		}
	}
	p = os.ExpandEnv(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.Dir), p)
}

// Init writes the commented default config into dir unless one exists.
// It reports whether a file was written.
func Init(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("ensure state dir: %w", err)
	}
	path := Path(dir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// Save writes c to Path(c.Dir).
func Save(c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure state dir: %w", err)
	}
	return os.WriteFile(Path(c.Dir), data, 0o644)
}
