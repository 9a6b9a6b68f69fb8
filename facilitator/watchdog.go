package facilitator

import (
	"context"
	"log/slog"
	"time"

	"collab-lab/domain"
	"collab-lab/observability"
)

// ProgressSource is what the watchdog inspects; the Facilitator satisfies it.
type ProgressSource interface {
	ActiveMeetings() []LiveMeetingState
}

// StallWatchdog periodically scans active meetings and surfaces the ones
// with no activity beyond the threshold. A meeting stalls when the
// selector finds no next speaker or a responder keeps failing; the
// watchdog makes that visible to the embedding application instead of
// letting the session hang silently.
type StallWatchdog struct {
	log        *slog.Logger
	source     ProgressSource
	monitoring *observability.Monitoring
	interval   time.Duration
	threshold  time.Duration

	// lastWarned remembers the activity timestamp a stall was already
	// reported for, so one stall episode produces one warning.
	lastWarned map[domain.SessionID]time.Time
}

func NewStallWatchdog(log *slog.Logger, source ProgressSource,
	monitoring *observability.Monitoring, interval, threshold time.Duration) *StallWatchdog {
	return &StallWatchdog{
		log:        log,
		source:     source,
		monitoring: monitoring,
		interval:   interval,
		threshold:  threshold,
		lastWarned: make(map[domain.SessionID]time.Time),
	}
}

func (w *StallWatchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.inspect()
		}
	}
}

func (w *StallWatchdog) inspect() {
	now := time.Now().UTC()
	for _, state := range w.source.ActiveMeetings() {
		idle := now.Sub(state.LastActivity)
		if idle < w.threshold {
			continue
		}
		if w.lastWarned[state.SessionID].Equal(state.LastActivity) {
			continue
		}
		w.lastWarned[state.SessionID] = state.LastActivity
		w.monitoring.StallDetected()
		w.log.Warn("Meeting stalled",
			"session", state.SessionID,
			"idle", idle.Round(time.Second),
			"messages", state.MessageCount,
			"consensus", state.Consensus.Level)
	}
}
