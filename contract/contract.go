//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"collab-lab/domain"
	"collab-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	SinksForSession(sessionID domain.SessionID) []EventSink
	Subscribe(subscriberID string, sessionID domain.SessionID, sink EventSink)
	Unsubscribe(subscriberID string, sessionID domain.SessionID)
}

// IBus is the collaboration-session message bus: session lifecycle,
// message broadcast and history access. All session state mutation
// goes through it, never around it.
type IBus interface {
	CreateSession(topic string, participantIDs []domain.ParticipantID, meetingType domain.MeetingType, overrides domain.CollaborationContext) (domain.SessionID, error)
	StartSession(sessionID domain.SessionID) error
	Broadcast(sessionID domain.SessionID, message domain.AgentMessage) error
	UpdateConsensus(sessionID domain.SessionID, report domain.ConsensusReport) error
	EndSession(sessionID domain.SessionID) error
	Session(sessionID domain.SessionID) (domain.Session, error)
	History(sessionID domain.SessionID) ([]domain.AgentMessage, error)
}

// Responder is the external participant capability: produce one reply
// given the session context and the full history. Expected to be slow,
// possibly failing, and non-deterministic. Callers bound it with ctx.
type Responder interface {
	GenerateResponse(ctx context.Context, meeting domain.CollaborationContext, history []domain.AgentMessage) (domain.AgentMessage, error)
}

// ConsensusStrategy scores how aligned a trailing window of history is.
// Implementations never fail for well-formed input and always return a
// defined report, including the neutral one for insufficient data.
type ConsensusStrategy interface {
	Estimate(history []domain.AgentMessage) domain.ConsensusReport
}
