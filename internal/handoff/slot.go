package handoff

import (
	"sync"
	"time"
)

// Payload is an uploaded document waiting to be opened by the workspace.
type Payload struct {
	Name     string
	Data     []byte
	Uploaded time.Time
}

// Slot passes one uploaded document from the upload screen to the workspace.
// Take hands the payload over exactly once and forgets it.
type Slot struct {
	mu      sync.Mutex
	payload *Payload
}

// Put stores p, replacing any payload nobody took.
func (s *Slot) Put(p Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Uploaded.IsZero() {
		p.Uploaded = time.Now()
	}
	s.payload = &p
}

// Take returns the stored payload and empties the slot.
func (s *Slot) Take() (Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return Payload{}, false
	}
	p := *s.payload
	s.payload = nil
	return p, true
}

// Pending reports whether a payload is waiting.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload != nil
}

// Discard empties the slot without handing the payload over.
func (s *Slot) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = nil
}
