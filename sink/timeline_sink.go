package sink

import (
	"context"
	"sync"

	"collab-lab/domain"
	"collab-lab/domain/event"
)

// Timeline keeps the most recent messages of each session for cheap UI
// reads. It is a local projection: ordering follows the event stream,
// no deduplication or durability.
type Timeline struct {
	mu       sync.RWMutex
	capacity int
	recent   map[domain.SessionID][]domain.AgentMessage
}

func NewTimeline(capacity int) *Timeline {
	return &Timeline{
		capacity: capacity,
		recent:   make(map[domain.SessionID][]domain.AgentMessage),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageBroadcast:
		t.mu.Lock()
		messages := append(t.recent[evt.Session], evt.Message)
		if len(messages) > t.capacity {
			messages = messages[len(messages)-t.capacity:]
		}
		t.recent[evt.Session] = messages
		t.mu.Unlock()
	case event.SessionEnded:
		t.mu.Lock()
		delete(t.recent, evt.Session)
		t.mu.Unlock()
	}
	return nil
}

// Recent returns a copy of the session's trailing messages.
func (t *Timeline) Recent(sessionID domain.SessionID) []domain.AgentMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.AgentMessage(nil), t.recent[sessionID]...)
}
