package services

import (
	"context"

	"collab-lab/domain"
	"collab-lab/facilitator"
)

type IMeetingService interface {
	StartMeeting(topic string, participantIDs []domain.ParticipantID, meetingType domain.MeetingType, overrides domain.CollaborationContext) (domain.SessionID, error)
	InjectMessage(sessionID domain.SessionID, content string, directTo ...domain.ParticipantID) error
	RequestTurn(ctx context.Context, sessionID domain.SessionID, participantID domain.ParticipantID) error
	EndMeeting(sessionID domain.SessionID) error
	Progress(sessionID domain.SessionID) (facilitator.LiveMeetingState, error)
	History(sessionID domain.SessionID) ([]domain.AgentMessage, error)
}

// MeetingService is the host-facing facade: facilitation operations plus
// the bus read surface, nothing else.
type MeetingService struct {
	facilitator *facilitator.Facilitator
	bus         historyReader
}

type historyReader interface {
	History(sessionID domain.SessionID) ([]domain.AgentMessage, error)
}

func NewMeetingService(f *facilitator.Facilitator, bus historyReader) *MeetingService {
	return &MeetingService{facilitator: f, bus: bus}
}

func (s *MeetingService) StartMeeting(topic string, participantIDs []domain.ParticipantID, meetingType domain.MeetingType, overrides domain.CollaborationContext) (domain.SessionID, error) {
	return s.facilitator.StartMeeting(topic, participantIDs, meetingType, overrides)
}

func (s *MeetingService) InjectMessage(sessionID domain.SessionID, content string, directTo ...domain.ParticipantID) error {
	return s.facilitator.InjectMessage(sessionID, content, directTo...)
}

func (s *MeetingService) RequestTurn(ctx context.Context, sessionID domain.SessionID, participantID domain.ParticipantID) error {
	return s.facilitator.RequestTurn(ctx, sessionID, participantID)
}

func (s *MeetingService) EndMeeting(sessionID domain.SessionID) error {
	return s.facilitator.EndMeeting(sessionID)
}

func (s *MeetingService) Progress(sessionID domain.SessionID) (facilitator.LiveMeetingState, error) {
	return s.facilitator.Progress(sessionID)
}

func (s *MeetingService) History(sessionID domain.SessionID) ([]domain.AgentMessage, error) {
	return s.bus.History(sessionID)
}
