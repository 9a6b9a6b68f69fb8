package event

import (
	"time"

	"collab-lab/domain"
)

// DomainEvent is the typed notification surface of the message bus.
// Every event is attributable to exactly one session.
type DomainEvent interface {
	SessionID() domain.SessionID
}

// SessionCreated is emitted once per session, before any broadcast.
type SessionCreated struct {
	Session      domain.SessionID
	Topic        string
	MeetingType  domain.MeetingType
	Participants []domain.ParticipantID
	At           time.Time
}

func (e SessionCreated) SessionID() domain.SessionID {
	return e.Session
}

// MessageBroadcast carries the broadcast message together with a snapshot
// of the session taken under the same lock as the history append. Consumers
// never observe a partially applied broadcast.
type MessageBroadcast struct {
	Session  domain.SessionID
	Message  domain.AgentMessage
	Snapshot domain.Session
}

func (e MessageBroadcast) SessionID() domain.SessionID {
	return e.Session
}

// SessionEnded marks the terminal transition. No broadcast follows it.
type SessionEnded struct {
	Session      domain.SessionID
	MessageCount int
	At           time.Time
}

func (e SessionEnded) SessionID() domain.SessionID {
	return e.Session
}
