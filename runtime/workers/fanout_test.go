package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"collab-lab/contract"
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/runtime"
)

// recordingSink captures every event it consumes, optionally failing.
type recordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
	fail   bool
}

func (s *recordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("sink unavailable")
	}
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func TestEventFanout_Delivers_To_Permanent_And_Session_Sinks(t *testing.T) {
	req := require.New(t)
	permanent := &recordingSink{}
	subscribed := &recordingSink{}
	other := &recordingSink{}

	registry := runtime.NewRegistry()
	registry.Subscribe("viewer-a", "session-1", subscribed)
	registry.Subscribe("viewer-b", "session-2", other)

	fanout := NewEventFanout(testLogger(), nil, nil, registry,
		[]contract.EventSink{permanent}, time.Second)

	// When one event for session-1 goes through
	evt := event.SessionEnded{Session: "session-1", MessageCount: 3}
	fanout.Fanout(context.Background(), evt)

	// Then the permanent sink and the session-1 subscriber receive it
	req.Len(permanent.Events(), 1)
	req.Len(subscribed.Events(), 1)
	req.Equal(domain.SessionID("session-1"), subscribed.Events()[0].SessionID())

	// And the session-2 subscriber does not
	req.Empty(other.Events())
}

func TestEventFanout_Failing_Sink_Never_Blocks_The_Others(t *testing.T) {
	req := require.New(t)
	broken := &recordingSink{fail: true}
	healthy := &recordingSink{}

	fanout := NewEventFanout(testLogger(), nil, nil, runtime.NewRegistry(),
		[]contract.EventSink{broken, healthy}, time.Second)

	fanout.Fanout(context.Background(), event.SessionEnded{Session: "session-1"})

	req.Len(healthy.Events(), 1)
}

func TestEventFanout_Run_Preserves_Order_And_Feeds_Telemetry(t *testing.T) {
	req := require.New(t)
	permanent := &recordingSink{}
	events := make(chan event.DomainEvent, 8)
	telemetry := make(chan event.DomainEvent, 8)

	fanout := NewEventFanout(testLogger(), events, telemetry, runtime.NewRegistry(),
		[]contract.EventSink{permanent}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fanout.Run(ctx)
	}()

	// When three events enter in order
	events <- event.SessionCreated{Session: "session-1"}
	events <- event.MessageBroadcast{Session: "session-1", Message: domain.AgentMessage{Content: "hello"}}
	events <- event.SessionEnded{Session: "session-1"}

	req.Eventually(func() bool { return len(permanent.Events()) == 3 },
		2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	// Then the sink observes them in emission order
	seen := permanent.Events()
	req.IsType(event.SessionCreated{}, seen[0])
	req.IsType(event.MessageBroadcast{}, seen[1])
	req.IsType(event.SessionEnded{}, seen[2])

	// And the telemetry channel got a copy of each
	req.Len(telemetry, 3)
}

func TestEventFanout_Stops_When_Channel_Closes(t *testing.T) {
	req := require.New(t)
	events := make(chan event.DomainEvent)
	fanout := NewEventFanout(testLogger(), events, nil, runtime.NewRegistry(), nil, time.Second)

	done := make(chan error, 1)
	go func() { done <- fanout.Run(context.Background()) }()

	close(events)

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		t.Fatal("fanout did not stop on channel close")
	}
}
