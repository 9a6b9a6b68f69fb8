// Package domain contains core concepts of the collaboration system.
// This file defines Participant identities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

type ParticipantID string

type ParticipantStatus string

const (
	StatusListening ParticipantStatus = "listening"
	StatusSpeaking  ParticipantStatus = "speaking"
	StatusInactive  ParticipantStatus = "inactive"
)

// Focus identifies the primary working angle of a participant.
// The speaker selector routes topics against it.
type Focus string

const (
	FocusCommunity  Focus = "community"
	FocusAnalytics  Focus = "analytics"
	FocusOperations Focus = "operations"
	FocusTechnical  Focus = "technical"
)

type Role struct {
	Name               string
	Specializations    []string
	CommunicationStyle string
	PrimaryFocus       Focus
}

// Participant represents one seat at the table.
// Identity and Role are immutable once registered.
// Status is advisory only and never gates eligibility to speak.
type Participant struct {
	ID        ParticipantID
	Role      Role
	Status    ParticipantStatus
	Expertise []string
}
