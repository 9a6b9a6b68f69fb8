package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"collab-lab/domain/event"
	"collab-lab/observability"
)

func TestTelemetryWorker_Counts_The_Event_Stream(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.DomainEvent, 8)
	monitoring := observability.NewMonitoring()
	worker := NewTelemetryWorker(testLogger(), telemetry, monitoring, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	telemetry <- event.SessionCreated{Session: "session-1"}
	telemetry <- event.MessageBroadcast{Session: "session-1"}
	telemetry <- event.MessageBroadcast{Session: "session-1"}
	telemetry <- event.SessionEnded{Session: "session-1"}

	req.Eventually(func() bool {
		stats := monitoring.GetLatest()
		return stats.SessionsCreated == 1 &&
			stats.MessagesBroadcast == 2 &&
			stats.SessionsEnded == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestTelemetryWorker_Stops_When_The_Stream_Closes(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan event.DomainEvent)
	worker := NewTelemetryWorker(testLogger(), telemetry, observability.NewMonitoring(), time.Hour)

	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	close(telemetry)

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		t.Fatal("telemetry worker did not stop on channel close")
	}
}
