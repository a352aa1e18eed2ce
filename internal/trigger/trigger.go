// Package trigger turns run intents into published documents. Every
// intent, whatever its source, reads the buffers at the moment it fires,
// composes them and publishes the result.
package trigger

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"hcj-play/internal/buffer"
	"hcj-play/internal/compose"
	"hcj-play/internal/preview"
)

// Reason records what caused a composition.
type Reason string

const (
	Manual   Reason = "manual"   // run control in the TUI
	KeyCombo Reason = "keycombo" // run key binding
	Initial  Reason = "initial"  // editor finished initializing
	Remote   Reason = "remote"   // Run button on the preview page
)

// DefaultRunKeys is the run combination. ctrl+enter only arrives from
// terminals that report it; ctrl+s works everywhere.
var DefaultRunKeys = []string{"ctrl+s", "ctrl+enter"}

// Source is the shared cell holding the latest buffers. It is read when a
// trigger fires, never captured ahead of time.
type Source interface {
	Snapshot() buffer.Set
}

// SourceFunc adapts a function to Source.
type SourceFunc func() buffer.Set

func (f SourceFunc) Snapshot() buffer.Set { return f() }

// Loader is a Source whose read can fail, such as one that reopens
// storage on every fire. A failed read aborts the fire; nothing is
// published and the previous document stays current.
type Loader interface {
	Source
	Load() (buffer.Set, error)
}

// LoadFunc adapts a fallible read to Loader.
type LoadFunc func() (buffer.Set, error)

func (f LoadFunc) Load() (buffer.Set, error) { return f() }

// Snapshot ignores the read error; the controller calls Load instead.
func (f LoadFunc) Snapshot() buffer.Set {
	s, _ := f()
	return s
}

// Controller composes and publishes on demand.
type Controller struct {
	mu     sync.Mutex
	source Source
	pub    preview.Publisher
	keys   key.Binding

	last    buffer.Set
	lastDoc preview.Document
	fired   int
	onFire  func(preview.Document, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeys replaces the run key combination.
func WithKeys(keys ...string) Option {
	return func(c *Controller) {
		if len(keys) > 0 {
			c.keys = runBinding(keys)
		}
	}
}

// OnFire registers a hook called after every publish with its result.
func OnFire(fn func(preview.Document, error)) Option {
	return func(c *Controller) { c.onFire = fn }
}

// New returns a controller reading from source and publishing to pub.
func New(source Source, pub preview.Publisher, opts ...Option) *Controller {
	c := &Controller{source: source, pub: pub, keys: runBinding(DefaultRunKeys)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func runBinding(keys []string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], "run"))
}

// Keys returns the run binding, for help rendering.
func (c *Controller) Keys() key.Binding { return c.keys }

// Fire snapshots the source, composes and publishes. The returned
// document is the one handed to the publisher; err is the publisher's.
func (c *Controller) Fire(reason Reason) (preview.Document, error) {
	doc, err := c.fire(reason)
	if c.onFire != nil {
		c.onFire(doc, err)
	}
	return doc, err
}

func (c *Controller) fire(reason Reason) (preview.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.read()
	if err != nil {
		return preview.Document{Reason: string(reason)}, fmt.Errorf("trigger: read buffers: %w", err)
	}
	doc := preview.NewDocument(compose.Compose(snap), string(reason))
	c.last = snap
	c.lastDoc = doc
	c.fired++
	if c.pub == nil {
		return doc, nil
	}
	if err := c.pub.Publish(doc); err != nil {
		return doc, fmt.Errorf("trigger: publish: %w", err)
	}
	return doc, nil
}

func (c *Controller) read() (buffer.Set, error) {
	if l, ok := c.source.(Loader); ok {
		return l.Load()
	}
	return c.source.Snapshot(), nil
}

// HandleKey fires when msg matches the run binding. A matched key is
// consumed: callers must not pass it on to the editor.
func (c *Controller) HandleKey(msg tea.KeyMsg) (doc preview.Document, handled bool, err error) {
	if !key.Matches(msg, c.keys) {
		return preview.Document{}, false, nil
	}
	doc, err = c.Fire(KeyCombo)
	return doc, true, err
}

// Last returns the buffers used by the most recent fire and whether any
// fire has happened.
func (c *Controller) Last() (buffer.Set, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.fired > 0
}

// LastDocument returns the most recently published document.
func (c *Controller) LastDocument() preview.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDoc
}

// Fired counts fires since creation.
func (c *Controller) Fired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
