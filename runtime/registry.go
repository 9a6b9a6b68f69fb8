package runtime

import (
	"sync"

	"collab-lab/contract"
	"collab-lab/domain"
)

type Set map[string]struct{}

// Registry tracks which subscriber listens to which session.
// Permanent consumers (facilitator, archival sinks) are registered on the
// fanout worker instead; this registry is for per-session subscribers
// such as UI listeners.
type Registry struct {
	mu      sync.RWMutex
	Sinks   map[string]contract.EventSink
	Members map[domain.SessionID]Set
}

func NewRegistry() *Registry {
	return &Registry{
		Sinks:   make(map[string]contract.EventSink),
		Members: make(map[domain.SessionID]Set),
	}
}

// SinksForSession retrieves all active sinks subscribed to a session.
// It performs a two-step lookup: session membership first, then sink
// resolution, so a subscriber listening to several sessions keeps a
// single sink registration. Returns nil for unknown or empty sessions.
func (r *Registry) SinksForSession(sessionID domain.SessionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.Members[sessionID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for subscriberID := range members {
		if sink, exists := r.Sinks[subscriberID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a subscriber's sink and attaches it to a session.
// The session's member set is initialized on the fly when needed.
func (r *Registry) Subscribe(subscriberID string, sessionID domain.SessionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sinks[subscriberID] = sink

	if _, ok := r.Members[sessionID]; !ok {
		r.Members[sessionID] = make(Set)
	}
	r.Members[sessionID][subscriberID] = struct{}{}
}

// Unsubscribe removes a subscriber from the registry and the session.
// Empty member sets are deleted to avoid leaking session entries over time.
func (r *Registry) Unsubscribe(subscriberID string, sessionID domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sinks, subscriberID)

	if members, ok := r.Members[sessionID]; ok {
		delete(members, subscriberID)

		if len(members) == 0 {
			delete(r.Members, sessionID)
		}
	}
}
