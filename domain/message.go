// Package domain contains core concepts of the collaboration system.
// This file defines AgentMessage events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageStatement     MessageType = "statement"
	MessageQuestion      MessageType = "question"
	MessageClarification MessageType = "clarification"
	MessageDecision      MessageType = "decision"
)

// AgentMessage represents one immutable contribution to a session.
// History order is the append order per session, never wall-clock order.
type AgentMessage struct {
	ID               uuid.UUID
	From             ParticipantID
	To               []ParticipantID
	At               time.Time
	Type             MessageType
	Content          string
	ReferencedAgents []ParticipantID
}

// Mentions reports whether the message explicitly references the given participant.
func (m AgentMessage) Mentions(id ParticipantID) bool {
	for _, ref := range m.ReferencedAgents {
		if ref == id {
			return true
		}
	}
	return false
}
