package facilitator

import (
	"time"

	"collab-lab/domain"
)

// Consensus is the facilitator's compact view of the latest estimation.
type Consensus struct {
	Level  float64
	Status domain.ConsensusStatus
}

// LiveMeetingState is the facilitator's read model of a meeting: created on
// session start, updated on every broadcast, marked inactive on session end.
// It deliberately duplicates parts of the bus's session record so the
// facilitator can be replaced independently of the bus.
type LiveMeetingState struct {
	SessionID      domain.SessionID
	IsActive       bool
	CurrentSpeaker *domain.ParticipantID
	Participants   []domain.ParticipantID
	MessageCount   int
	StartTime      time.Time
	LastActivity   time.Time
	Consensus      Consensus
}

// meeting couples the read model with the scheduling state. At most one
// turn timer is pending per session; direct-address targets beyond the
// first wait in the queue until the pending turn lands.
type meeting struct {
	state       LiveMeetingState
	pendingTurn *time.Timer
	pendingFor  domain.ParticipantID
	turnQueue   []domain.ParticipantID
}

func (m *meeting) snapshot() LiveMeetingState {
	state := m.state
	state.Participants = append([]domain.ParticipantID(nil), m.state.Participants...)
	if m.state.CurrentSpeaker != nil {
		speaker := *m.state.CurrentSpeaker
		state.CurrentSpeaker = &speaker
	}
	return state
}
