// Package store is the shared, in-memory record store screens read from.
//
// Writes go through Dispatch only. Subscribers receive Change events on a
// buffered channel; a subscriber that falls behind loses events rather
// than blocking the writer.
package store

import (
	"slices"
	"sync"

	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/model"
)

// Kind names a store mutation.
type Kind int

const (
	Replace Kind = iota
	SetStatus
	Remove
)

func (k Kind) String() string {
	switch k {
	case Replace:
		return "replace"
	case SetStatus:
		return "set_status"
	case Remove:
		return "remove"
	}
	return "unknown"
}

// Action is a write request.
type Action struct {
	Kind     Kind
	Resource string
	Records  []model.Record // Replace
	IDs      []string       // SetStatus, Remove
	Status   string         // SetStatus
}

// Change is what subscribers see after an action is applied.
type Change struct {
	Kind     Kind
	Resource string
	IDs      []string
	Version  uint64
}

// Store holds one snapshot per resource.
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	data    map[string][]model.Record
	version uint64

	subscribers   []chan Change
	subscribersMu sync.RWMutex
	dropped       uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]model.Record)}
}

// Dispatch applies a and notifies subscribers. It returns the ids that
// actually changed.
func (s *Store) Dispatch(a Action) []string {
	s.mu.Lock()
	var touched []string
	switch a.Kind {
	case Replace:
		s.data[a.Resource] = slices.Clone(a.Records)
		touched = model.IDs(a.Records)
	case SetStatus:
		recs := slices.Clone(s.data[a.Resource])
		for i, r := range recs {
			if slices.Contains(a.IDs, r.ID) && r.Status != a.Status {
				recs[i] = r.With(map[string]any{model.FieldStatus: a.Status})
				touched = append(touched, r.ID)
			}
		}
		s.data[a.Resource] = recs
	case Remove:
		recs := s.data[a.Resource]
		kept := make([]model.Record, 0, len(recs))
		for _, r := range recs {
			if slices.Contains(a.IDs, r.ID) {
				touched = append(touched, r.ID)
				continue
			}
			kept = append(kept, r)
		}
		s.data[a.Resource] = kept
	}
	s.version++
	ch := Change{Kind: a.Kind, Resource: a.Resource, IDs: touched, Version: s.version}
	s.mu.Unlock()

	s.notify(ch)
	return touched
}

// Snapshot returns a copy of the records held for resource.
func (s *Store) Snapshot(resource string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data[resource])
}

// Find looks up a record by id.
func (s *Store) Find(resource, id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.data[resource] {
		if r.ID == id {
			return r, true
		}
	}
	return model.Record{}, false
}

// Where returns records of resource whose field equals value.
func (s *Store) Where(resource, field, value string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Record
	for _, r := range s.data[resource] {
		if r.Text(field) == value {
			out = append(out, r)
		}
	}
	return out
}

// Version increments on every dispatch.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel of changes. Drain it or lose events.
func (s *Store) Subscribe() <-chan Change {
	ch := make(chan Change, 64)
	s.subscribersMu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.subscribersMu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (s *Store) Unsubscribe(ch <-chan Change) {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = slices.Delete(s.subscribers, i, i+1)
			close(sub)
			return
		}
	}
}

// Dropped counts events lost to full subscriber buffers.
func (s *Store) Dropped() uint64 {
	s.subscribersMu.RLock()
	defer s.subscribersMu.RUnlock()
	return s.dropped
}

func (s *Store) notify(c Change) {
	s.subscribersMu.Lock()
	defer s.subscribersMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- c:
		default:
			s.dropped++
			logging.Debug("store change dropped (subscriber full)",
				"resource", c.Resource, "kind", c.Kind, "version", c.Version)
		}
	}
}
