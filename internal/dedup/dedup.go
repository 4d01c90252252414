// Package dedup suppresses Slack event redeliveries. Slack resends an event
// when it does not get a timely 2xx, so a slow Notion write can cause the
// same reaction to arrive twice.
package dedup

import "sync"

const (
	maxSeenIDs = 10000
	pruneCount = 1000
)

// Suppressor tracks event ids that have already been handled.
type Suppressor struct {
	mu        sync.Mutex
	seen      map[string]bool
	seenOrder []string
}

// New creates an empty Suppressor.
func New() *Suppressor {
	return &Suppressor{seen: make(map[string]bool)}
}

// Seen records the event id and reports whether it was already present.
// An empty id is never suppressed.
func (s *Suppressor) Seen(eventID string) bool {
	if eventID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[eventID] {
		return true
	}

	// Prune oldest entries if at capacity.
	if len(s.seen) >= maxSeenIDs {
		for i := 0; i < pruneCount && i < len(s.seenOrder); i++ {
			delete(s.seen, s.seenOrder[i])
		}
		s.seenOrder = s.seenOrder[pruneCount:]
	}

	s.seen[eventID] = true
	s.seenOrder = append(s.seenOrder, eventID)
	return false
}

// Forget removes the event id so a redelivery is processed again. Used when
// handling faulted after the id was recorded: the retry must not be
// mistaken for a duplicate. The prune-order entry is left behind; pruning
// a forgotten id is a no-op.
func (s *Suppressor) Forget(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, eventID)
}
