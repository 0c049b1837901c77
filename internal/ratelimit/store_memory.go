package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemory keeps sliding windows in process memory. Counts are per instance.
type InMemory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (s *InMemory) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	events := evict(s.windows[key], now.Add(-window))

	if len(events) >= limit {
		s.windows[key] = events
		return &Result{
			Allowed: false,
			Limit:   limit,
			ResetAt: events[0].Add(window),
		}, nil
	}

	events = append(events, now)
	s.windows[key] = events
	return &Result{
		Allowed:   true,
		Remaining: limit - len(events),
		Limit:     limit,
		ResetAt:   events[0].Add(window),
	}, nil
}

// Prune drops windows with no events newer than window. Call it periodically
// so idle senders do not accumulate.
func (s *InMemory) Prune(window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window)
	for key, events := range s.windows {
		if events = evict(events, cutoff); len(events) == 0 {
			delete(s.windows, key)
			continue
		}
		s.windows[key] = events
	}
}

// evict drops timestamps at or before cutoff. events is sorted oldest first.
func evict(events []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(events); i++ {
		if events[i].After(cutoff) {
			break
		}
	}
	return events[i:]
}
