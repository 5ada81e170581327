// Package diagnostics keeps a bounded in-memory log of notable events and
// builds the diagnostics report.
package diagnostics

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultCapacity is the number of entries a Ring keeps by default.
const DefaultCapacity = 50

// Entry is a single recorded event.
type Entry struct {
	ID      string         `json:"id" yaml:"id"`
	Time    time.Time      `json:"time" yaml:"time"`
	Type    string         `json:"type" yaml:"type"`
	Message string         `json:"message" yaml:"message"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Ring holds the most recent entries, dropping the oldest when full.
type Ring struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	now      func() time.Time
}

// NewRing creates a ring holding up to capacity entries.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
		now:      time.Now,
	}
}

// Capacity returns the maximum number of entries kept.
func (r *Ring) Capacity() int {
	return r.capacity
}

// Log records an event and returns the stored entry.
func (r *Ring) Log(typ, message string, data map[string]any) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addLocked(Entry{
		Time:    r.now(),
		Type:    typ,
		Message: message,
		Data:    data,
	})
}

// Add records a prepared entry. A missing ID or time is filled in.
func (r *Ring) Add(e Entry) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = r.now()
	}
	return r.addLocked(e)
}

func (r *Ring) addLocked(e Entry) Entry {
	if e.ID == "" {
		if id, err := ulid.New(ulid.Timestamp(e.Time), rand.Reader); err == nil {
			e.ID = id.String()
		}
	}

	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, e)
	return e
}

// Entries returns a copy of the stored entries, oldest first.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of stored entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear drops all entries.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
