// Package runtime handles session state, event production and propagation.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/errors"
	"collab-lab/roster"
)

var validate = validator.New()

// createSessionRequest validates the public creation surface before any
// state is allocated.
type createSessionRequest struct {
	Topic        string   `validate:"required"`
	Participants []string `validate:"required,min=1"`
	MeetingType  string   `validate:"required,oneof=brainstorm problem_solving design_review decision_making"`
}

// sessionEntry pairs a session record with its append-only history.
// The entry mutex is the per-session serialization point: appends, state
// updates and event emission happen atomically with respect to concurrent
// broadcasts on the same session.
type sessionEntry struct {
	mu      sync.Mutex
	session domain.Session
	history []domain.AgentMessage
}

// Bus is the collaboration-session message bus. It owns all mutation of
// session state; the facilitator and other callers never touch the store
// directly. Independent sessions are serviced concurrently, each behind
// its own entry lock.
type Bus struct {
	mu        sync.RWMutex
	log       *slog.Logger
	catalog   *roster.Catalog
	moderator string
	entries   map[domain.SessionID]*sessionEntry
	events    chan event.DomainEvent
}

func NewBus(log *slog.Logger, catalog *roster.Catalog, moderator string, bufferSize int) *Bus {
	return &Bus{
		log:       log,
		catalog:   catalog,
		moderator: moderator,
		entries:   make(map[domain.SessionID]*sessionEntry),
		events:    make(chan event.DomainEvent, bufferSize),
	}
}

// Events exposes the typed notification stream. A single fanout worker
// consumes it, which preserves per-session FIFO order end to end.
func (b *Bus) Events() <-chan event.DomainEvent {
	return b.events
}

// CreateSession validates the request, resolves every participant against
// the catalog and stores a fresh initializing session. Unknown participant
// ids fail the whole call: silent drops hide configuration errors.
func (b *Bus) CreateSession(topic string, participantIDs []domain.ParticipantID, meetingType domain.MeetingType, overrides domain.CollaborationContext) (domain.SessionID, error) {
	req := createSessionRequest{
		Topic:       topic,
		MeetingType: string(meetingType),
	}
	for _, id := range participantIDs {
		req.Participants = append(req.Participants, string(id))
	}
	if err := validate.Struct(req); err != nil {
		if len(participantIDs) == 0 {
			return "", errors.ErrNoParticipants
		}
		return "", err
	}

	participants, err := b.catalog.Resolve(participantIDs)
	if err != nil {
		return "", err
	}

	sessionID := domain.SessionID(uuid.NewString())
	session := domain.Session{
		ID:           sessionID,
		Participants: participants,
		Topic:        topic,
		State: domain.ConversationState{
			Status:         domain.SessionInitializing,
			AgreementLevel: 0,
		},
		MeetingType: meetingType,
		Moderator:   b.moderator,
		StartTime:   time.Now().UTC(),
		Context:     overrides.WithDefaults(topic),
	}

	b.mu.Lock()
	b.entries[sessionID] = &sessionEntry{session: session}
	b.mu.Unlock()

	b.log.Info("Session created",
		"session", sessionID, "topic", topic, "type", meetingType,
		"participants", len(participants))

	b.events <- event.SessionCreated{
		Session:      sessionID,
		Topic:        topic,
		MeetingType:  meetingType,
		Participants: session.ParticipantIDs(),
		At:           session.StartTime,
	}
	return sessionID, nil
}

// StartSession moves an initializing session to active and broadcasts the
// system-authored kickoff message as the first entry of the history.
func (b *Bus) StartSession(sessionID domain.SessionID) error {
	entry, err := b.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	switch entry.session.State.Status {
	case domain.SessionActive:
		return fmt.Errorf("%w: %s", errors.ErrSessionAlreadyStarted, sessionID)
	case domain.SessionCompleted:
		return fmt.Errorf("%w: %s", errors.ErrSessionCompleted, sessionID)
	}

	entry.session.State.Status = domain.SessionActive
	b.broadcastLocked(entry, kickoffMessage(entry.session, b.moderator))
	return nil
}

// Broadcast appends one message to a live session and notifies subscribers.
// Completed sessions are terminal: any further broadcast is rejected.
func (b *Bus) Broadcast(sessionID domain.SessionID, message domain.AgentMessage) error {
	entry, err := b.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.State.Status == domain.SessionCompleted {
		return fmt.Errorf("%w: %s", errors.ErrSessionCompleted, sessionID)
	}
	b.broadcastLocked(entry, message)
	return nil
}

// broadcastLocked applies the append under the entry lock so subscribers
// only ever observe a consistent snapshot.
func (b *Bus) broadcastLocked(entry *sessionEntry, message domain.AgentMessage) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.At.IsZero() {
		message.At = time.Now().UTC()
	}
	if message.Type == "" {
		message.Type = domain.MessageStatement
	}

	entry.history = append(entry.history, message)
	entry.session.State.MessageCount = len(entry.history)
	speaker := message.From
	entry.session.State.CurrentSpeaker = &speaker

	b.events <- event.MessageBroadcast{
		Session:  entry.session.ID,
		Message:  message,
		Snapshot: snapshot(entry.session),
	}
}

// UpdateConsensus writes the facilitator's latest estimation back into the
// session record. Completed sessions keep their final reading.
func (b *Bus) UpdateConsensus(sessionID domain.SessionID, report domain.ConsensusReport) error {
	entry, err := b.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.State.Status == domain.SessionCompleted {
		return fmt.Errorf("%w: %s", errors.ErrSessionCompleted, sessionID)
	}
	entry.session.State.AgreementLevel = report.AgreementLevel
	entry.session.State.ConvergencePoints = append([]string(nil), report.ConvergencePoints...)
	entry.session.State.RemainingDisagreements = append([]string(nil), report.RemainingDisagreements...)
	return nil
}

// EndSession marks the session completed and notifies subscribers.
func (b *Bus) EndSession(sessionID domain.SessionID) error {
	entry, err := b.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.State.Status == domain.SessionCompleted {
		return fmt.Errorf("%w: %s", errors.ErrSessionCompleted, sessionID)
	}
	entry.session.State.Status = domain.SessionCompleted

	b.log.Info("Session ended",
		"session", sessionID, "messages", entry.session.State.MessageCount)

	b.events <- event.SessionEnded{
		Session:      sessionID,
		MessageCount: entry.session.State.MessageCount,
		At:           time.Now().UTC(),
	}
	return nil
}

// Session returns a defensive copy of the session record.
func (b *Bus) Session(sessionID domain.SessionID) (domain.Session, error) {
	entry, err := b.entry(sessionID)
	if err != nil {
		return domain.Session{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return snapshot(entry.session), nil
}

// History returns a copy of the append-only history; callers can never
// mutate the stored order.
func (b *Bus) History(sessionID domain.SessionID) ([]domain.AgentMessage, error) {
	entry, err := b.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return append([]domain.AgentMessage(nil), entry.history...), nil
}

func (b *Bus) entry(sessionID domain.SessionID) (*sessionEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrSessionNotFound, sessionID)
	}
	return entry, nil
}

// snapshot deep-copies the mutable parts of a session record.
func snapshot(s domain.Session) domain.Session {
	copied := s
	copied.Participants = append([]domain.Participant(nil), s.Participants...)
	copied.State.ConvergencePoints = append([]string(nil), s.State.ConvergencePoints...)
	copied.State.RemainingDisagreements = append([]string(nil), s.State.RemainingDisagreements...)
	if s.State.CurrentSpeaker != nil {
		speaker := *s.State.CurrentSpeaker
		copied.State.CurrentSpeaker = &speaker
	}
	return copied
}

// kickoffMessage summarizes topic, objectives and considerations as the
// system-authored opening of the discussion.
func kickoffMessage(session domain.Session, moderator string) domain.AgentMessage {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Welcome to this %s session on %q.", session.MeetingType, session.Topic))
	if len(session.Context.Objectives) > 0 {
		sb.WriteString(" Objectives: ")
		sb.WriteString(strings.Join(session.Context.Objectives, "; "))
		sb.WriteString(".")
	}
	if len(session.Context.Considerations) > 0 {
		sb.WriteString(" Considerations: ")
		sb.WriteString(strings.Join(session.Context.Considerations, "; "))
		sb.WriteString(".")
	}
	return domain.AgentMessage{
		From:    domain.ParticipantID(moderator),
		Type:    domain.MessageStatement,
		Content: sb.String(),
	}
}
