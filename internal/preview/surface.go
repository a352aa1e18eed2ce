package preview

import "sync"

// Surface is the latest document plus a change signal. It is safe for
// concurrent use: the editor publishes while HTTP handlers read.
type Surface struct {
	mu      sync.RWMutex
	doc     Document
	changed chan struct{}
}

func NewSurface() *Surface {
	return &Surface{changed: make(chan struct{})}
}

// Publish replaces the current document and wakes every waiter.
func (s *Surface) Publish(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	close(s.changed)
	s.changed = make(chan struct{})
	return nil
}

// Current returns the latest document (zero before the first publish).
func (s *Surface) Current() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// watch returns the current document and the channel closed by the next
// Publish, read under one lock so no publish slips between them.
func (s *Surface) watch() (Document, <-chan struct{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.changed
}
