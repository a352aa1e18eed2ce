// Package preview holds the latest composed document and shows it to a
// browser. Every publish replaces the document wholesale.
package preview

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Document is one published composition.
type Document struct {
	Rev    string // ULID; sorts by publish time
	HTML   string
	Reason string // what triggered the composition
	At     time.Time
}

// IsZero reports whether nothing has been published yet.
func (d Document) IsZero() bool { return d.Rev == "" }

// NewDocument stamps html with a fresh revision.
func NewDocument(html, reason string) Document {
	now := time.Now()
	return Document{
		Rev:    ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		HTML:   html,
		Reason: reason,
		At:     now,
	}
}

// Publisher receives every new document.
type Publisher interface {
	Publish(doc Document) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Document) error

func (f PublisherFunc) Publish(doc Document) error { return f(doc) }

// Fanout publishes to each publisher in order. All are attempted; the
// first error is returned.
type Fanout []Publisher

func (f Fanout) Publish(doc Document) error {
	var first error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(doc); err != nil && first == nil {
			first = err
		}
	}
	return first
}
