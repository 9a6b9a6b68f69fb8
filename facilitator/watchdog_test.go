package facilitator

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"collab-lab/observability"
)

// fixedSource serves a static list of live meeting states.
type fixedSource struct {
	states []LiveMeetingState
}

func (s fixedSource) ActiveMeetings() []LiveMeetingState {
	return s.states
}

func newWatchdog(source ProgressSource, monitoring *observability.Monitoring, threshold time.Duration) *StallWatchdog {
	return NewStallWatchdog(logs.GetLoggerFromLevel(slog.LevelDebug),
		source, monitoring, time.Hour, threshold)
}

func TestStallWatchdog_Flags_Idle_Meetings(t *testing.T) {
	req := require.New(t)
	monitoring := observability.NewMonitoring()
	source := fixedSource{states: []LiveMeetingState{
		{SessionID: "stalled", LastActivity: time.Now().UTC().Add(-time.Minute)},
		{SessionID: "lively", LastActivity: time.Now().UTC()},
	}}
	watchdog := newWatchdog(source, monitoring, 30*time.Second)

	watchdog.inspect()

	req.Equal(uint64(1), monitoring.GetLatest().StallsDetected)
}

func TestStallWatchdog_One_Warning_Per_Stall_Episode(t *testing.T) {
	req := require.New(t)
	monitoring := observability.NewMonitoring()
	stalledSince := time.Now().UTC().Add(-time.Minute)
	source := fixedSource{states: []LiveMeetingState{
		{SessionID: "stalled", LastActivity: stalledSince},
	}}
	watchdog := newWatchdog(source, monitoring, 30*time.Second)

	// Repeated scans over the same idle period warn once
	watchdog.inspect()
	watchdog.inspect()
	req.Equal(uint64(1), monitoring.GetLatest().StallsDetected)

	// New activity followed by a new stall is a fresh episode
	source.states[0].LastActivity = time.Now().UTC().Add(-45 * time.Second)
	watchdog.inspect()
	req.Equal(uint64(2), monitoring.GetLatest().StallsDetected)
}
