package interview

import (
	"context"
	"log"
	"sync"
	"time"
)

// Hub keeps one controller per user and evicts sessions left idle.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	factory  func(userID string) *Controller
	idleTTL  time.Duration
	now      func() time.Time
}

func NewHub(factory func(userID string) *Controller, idleTTL time.Duration) *Hub {
	return &Hub{
		sessions: make(map[string]*Controller),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get returns the user's controller, creating it on first use.
func (h *Hub) Get(userID string) *Controller {
	h.mu.RLock()
	c, ok := h.sessions[userID]
	h.mu.RUnlock()
	if ok {
		return c
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.sessions[userID]; ok {
		return c
	}
	c = h.factory(userID)
	h.sessions[userID] = c
	return c
}

func (h *Hub) Lookup(userID string) (*Controller, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.sessions[userID]
	return c, ok
}

// Remove ends and forgets the user's session.
func (h *Hub) Remove(userID string) {
	h.mu.Lock()
	c, ok := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()
	if ok {
		c.End()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Sweep ends sessions idle for longer than the TTL and returns how many
// were removed. Sessions waiting on a model response are kept.
func (h *Hub) Sweep() int {
	cutoff := h.now().Add(-h.idleTTL)
	var stale []*Controller

	h.mu.Lock()
	for userID, c := range h.sessions {
		if c.Phase().Pending() || c.LastActive().After(cutoff) {
			continue
		}
		stale = append(stale, c)
		delete(h.sessions, userID)
	}
	h.mu.Unlock()

	for _, c := range stale {
		c.End()
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.Sweep(); n > 0 {
				log.Printf("evicted %d idle interview sessions", n)
			}
		}
	}
}
