package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"collab-lab/domain"
	"collab-lab/domain/event"
)

type nopSink struct{}

func (nopSink) Consume(context.Context, event.DomainEvent) error { return nil }

func TestRegistry_Subscribe_Then_Resolve(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sessionID := domain.SessionID("session-1")

	// Given two subscribers on the same session
	registry.Subscribe("viewer-a", sessionID, nopSink{})
	registry.Subscribe("viewer-b", sessionID, nopSink{})

	// Then both sinks resolve for that session
	sinks := registry.SinksForSession(sessionID)
	req.Len(sinks, 2)

	// And an unknown session resolves to nothing
	req.Nil(registry.SinksForSession("session-2"))
}

func TestRegistry_One_Sink_Across_Sessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given one subscriber listening to two sessions
	registry.Subscribe("viewer-a", "session-1", nopSink{})
	registry.Subscribe("viewer-a", "session-2", nopSink{})

	// Then the sink registration stays single but serves both sessions
	req.Len(registry.Sinks, 1)
	req.Len(registry.SinksForSession("session-1"), 1)
	req.Len(registry.SinksForSession("session-2"), 1)
}

func TestRegistry_Unsubscribe_Cleans_Up(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sessionID := domain.SessionID("session-1")

	registry.Subscribe("viewer-a", sessionID, nopSink{})
	registry.Subscribe("viewer-b", sessionID, nopSink{})

	// When one subscriber leaves
	registry.Unsubscribe("viewer-a", sessionID)

	// Then only the other remains
	req.Len(registry.SinksForSession(sessionID), 1)
	req.NotContains(registry.Sinks, "viewer-a")

	// And removing the last subscriber drops the session entry entirely
	registry.Unsubscribe("viewer-b", sessionID)
	req.Nil(registry.SinksForSession(sessionID))
	req.NotContains(registry.Members, sessionID)
}

func TestRegistry_Unsubscribe_Unknown_Is_A_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Unsubscribe("ghost", "session-1")

	req.Empty(registry.Sinks)
	req.Empty(registry.Members)
}
