// Package observability aggregates process-wide counters for logging and
// the debug inspector. Counters are updated from the telemetry stream and
// from the facilitator; reads are lock-free snapshots.
package observability

import (
	"sync/atomic"
)

// Stats is one consistent snapshot of the orchestrator counters.
type Stats struct {
	SessionsCreated   uint64 `json:"sessions_created"`
	SessionsEnded     uint64 `json:"sessions_ended"`
	MessagesBroadcast uint64 `json:"messages_broadcast"`
	TurnsRequested    uint64 `json:"turns_requested"`
	TurnsFailed       uint64 `json:"turns_failed"`
	StallsDetected    uint64 `json:"stalls_detected"`
}

type Monitoring struct {
	sessionsCreated   atomic.Uint64
	sessionsEnded     atomic.Uint64
	messagesBroadcast atomic.Uint64
	turnsRequested    atomic.Uint64
	turnsFailed       atomic.Uint64
	stallsDetected    atomic.Uint64
}

func NewMonitoring() *Monitoring {
	return &Monitoring{}
}

func (m *Monitoring) SessionCreated()   { m.sessionsCreated.Add(1) }
func (m *Monitoring) SessionEnded()     { m.sessionsEnded.Add(1) }
func (m *Monitoring) MessageBroadcast() { m.messagesBroadcast.Add(1) }
func (m *Monitoring) TurnRequested()    { m.turnsRequested.Add(1) }
func (m *Monitoring) TurnFailed()       { m.turnsFailed.Add(1) }
func (m *Monitoring) StallDetected()    { m.stallsDetected.Add(1) }

func (m *Monitoring) GetLatest() Stats {
	return Stats{
		SessionsCreated:   m.sessionsCreated.Load(),
		SessionsEnded:     m.sessionsEnded.Load(),
		MessagesBroadcast: m.messagesBroadcast.Load(),
		TurnsRequested:    m.turnsRequested.Load(),
		TurnsFailed:       m.turnsFailed.Load(),
		StallsDetected:    m.stallsDetected.Load(),
	}
}
