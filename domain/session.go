package domain

import (
	"time"
)

type SessionID string

type MeetingType string

const (
	MeetingBrainstorm     MeetingType = "brainstorm"
	MeetingProblemSolving MeetingType = "problem_solving"
	MeetingDesignReview   MeetingType = "design_review"
	MeetingDecisionMaking MeetingType = "decision_making"
)

type SessionStatus string

const (
	SessionInitializing SessionStatus = "initializing"
	SessionActive       SessionStatus = "active"
	SessionCompleted    SessionStatus = "completed"
)

// ConversationState is the mutable part of a session.
// Status is monotonic: initializing -> active -> completed, no regressions.
type ConversationState struct {
	Status                 SessionStatus
	MessageCount           int
	CurrentSpeaker         *ParticipantID
	AgreementLevel         float64
	ConvergencePoints      []string
	RemainingDisagreements []string
}

// Session is one moderated, topic-scoped discussion among a fixed set
// of participants. Everything except State and Topic is fixed at creation.
type Session struct {
	ID           SessionID
	Participants []Participant
	Topic        string
	State        ConversationState
	MeetingType  MeetingType
	Moderator    string
	StartTime    time.Time
	Context      CollaborationContext
}

// HasParticipant reports whether the given id holds a seat in this session.
func (s Session) HasParticipant(id ParticipantID) bool {
	for _, p := range s.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ParticipantIDs lists the seats in registration order.
func (s Session) ParticipantIDs() []ParticipantID {
	ids := make([]ParticipantID, 0, len(s.Participants))
	for _, p := range s.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}
