// Package facilitator drives the meeting loop: it reacts to every bus
// broadcast by re-estimating consensus and scheduling the next turn, and
// invokes the external participant capability to produce replies.
package facilitator

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"collab-lab/contract"
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/errors"
	"collab-lab/observability"
	"collab-lab/selection"
)

// ExternalSenderID attributes injected ("user") messages.
const ExternalSenderID = domain.ParticipantID("user")

// highConsensusThreshold is the log-worthy level, above the ordinary
// "achieved" threshold of the estimator.
const highConsensusThreshold = 0.85

// Options bound the pacing and the responder calls. Zero values fall back
// to defaults suitable for tests and the demo.
type Options struct {
	TurnDelay    time.Duration // pacing before a scheduled turn fires
	TurnTimeout  time.Duration // per-attempt bound on a responder call
	TurnAttempts int           // bounded retry on responder failure
	RetryBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.TurnDelay <= 0 {
		o.TurnDelay = 500 * time.Millisecond
	}
	if o.TurnTimeout <= 0 {
		o.TurnTimeout = 30 * time.Second
	}
	if o.TurnAttempts <= 0 {
		o.TurnAttempts = 3
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 250 * time.Millisecond
	}
	return o
}

// Facilitator is a permanent sink of the bus's event stream. One instance
// serves many meetings; each meeting's scheduling state is serialized
// behind the facilitator mutex.
type Facilitator struct {
	mu         sync.Mutex
	log        *slog.Logger
	bus        contract.IBus
	strategy   contract.ConsensusStrategy
	monitoring *observability.Monitoring
	responders map[domain.ParticipantID]contract.Responder
	meetings   map[domain.SessionID]*meeting
	opts       Options
}

func NewFacilitator(log *slog.Logger, bus contract.IBus, strategy contract.ConsensusStrategy,
	monitoring *observability.Monitoring, opts Options) *Facilitator {
	return &Facilitator{
		log:        log,
		bus:        bus,
		strategy:   strategy,
		monitoring: monitoring,
		responders: make(map[domain.ParticipantID]contract.Responder),
		meetings:   make(map[domain.SessionID]*meeting),
		opts:       opts.withDefaults(),
	}
}

// RegisterResponder binds a participant id to its response capability.
func (f *Facilitator) RegisterResponder(id domain.ParticipantID, responder contract.Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responders[id] = responder
}

// StartMeeting creates and starts a session, initializes the live state and
// schedules the opening turn: the community lead when one holds a seat,
// otherwise whoever the selector routes the topic to.
func (f *Facilitator) StartMeeting(topic string, participantIDs []domain.ParticipantID,
	meetingType domain.MeetingType, overrides domain.CollaborationContext) (domain.SessionID, error) {
	sessionID, err := f.bus.CreateSession(topic, participantIDs, meetingType, overrides)
	if err != nil {
		return "", err
	}

	session, err := f.bus.Session(sessionID)
	if err != nil {
		return "", err
	}

	// Register the meeting before the kickoff broadcast reaches us.
	f.mu.Lock()
	f.meetings[sessionID] = &meeting{state: LiveMeetingState{
		SessionID:    sessionID,
		IsActive:     true,
		Participants: session.ParticipantIDs(),
		StartTime:    session.StartTime,
		LastActivity: session.StartTime,
	}}
	f.mu.Unlock()

	if err := f.bus.StartSession(sessionID); err != nil {
		// Never leave a dead entry behind for the watchdog to scan.
		f.mu.Lock()
		delete(f.meetings, sessionID)
		f.mu.Unlock()
		return "", err
	}

	opener, ok := f.opener(session)
	if !ok {
		f.log.Warn("No opening speaker found, meeting waits for external input", "session", sessionID)
		return sessionID, nil
	}
	f.scheduleTurn(sessionID, opener)
	return sessionID, nil
}

// opener prefers the community lead as the first voice of a meeting.
func (f *Facilitator) opener(session domain.Session) (domain.ParticipantID, bool) {
	for _, p := range session.Participants {
		if p.Role.PrimaryFocus == domain.FocusCommunity {
			return p.ID, true
		}
	}
	return selection.NextSpeaker(session, domain.AgentMessage{})
}

// Consume reacts to bus events for the meetings this facilitator owns.
// Events for unknown sessions are ignored: another consumer may share the
// same bus.
func (f *Facilitator) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageBroadcast:
		f.onBroadcast(evt)
	case event.SessionEnded:
		f.onEnded(evt)
	}
	return nil
}

func (f *Facilitator) onBroadcast(evt event.MessageBroadcast) {
	f.mu.Lock()
	m, ok := f.meetings[evt.Session]
	if !ok || !m.state.IsActive {
		f.mu.Unlock()
		return
	}
	speaker := evt.Message.From
	m.state.MessageCount = evt.Snapshot.State.MessageCount
	m.state.CurrentSpeaker = &speaker
	m.state.LastActivity = time.Now().UTC()
	f.mu.Unlock()

	f.refreshConsensus(evt.Session)

	// The kickoff is system-authored; the opening turn is already scheduled
	// by StartMeeting and must not compete with the selector.
	if string(evt.Message.From) == evt.Snapshot.Moderator {
		return
	}
	f.scheduleNext(evt.Session, evt.Snapshot, evt.Message)
}

func (f *Facilitator) onEnded(evt event.SessionEnded) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[evt.Session]
	if !ok {
		return
	}
	m.state.IsActive = false
	f.cancelPendingLocked(m)
}

// refreshConsensus re-estimates over the full history and syncs both the
// live state and the bus's session record.
func (f *Facilitator) refreshConsensus(sessionID domain.SessionID) {
	history, err := f.bus.History(sessionID)
	if err != nil {
		return
	}
	report := f.strategy.Estimate(history)

	f.mu.Lock()
	if m, ok := f.meetings[sessionID]; ok {
		m.state.Consensus = Consensus{Level: report.AgreementLevel, Status: report.Status}
	}
	f.mu.Unlock()

	if err := f.bus.UpdateConsensus(sessionID, report); err != nil {
		f.log.Debug("Consensus not recorded", "session", sessionID, "error", err)
	}

	if report.AgreementLevel >= highConsensusThreshold {
		f.log.Info("High consensus reached",
			"session", sessionID, "level", report.AgreementLevel)
	}
}

// scheduleNext decides the next turn after a participant message:
// queued direct-address targets first, then explicit references, then the
// topic selector. A selector pick equal to the author stalls the meeting
// rather than letting one voice monologue.
func (f *Facilitator) scheduleNext(sessionID domain.SessionID, session domain.Session, last domain.AgentMessage) {
	if f.scheduleQueued(sessionID) {
		return
	}

	for _, ref := range last.ReferencedAgents {
		if session.HasParticipant(ref) {
			f.scheduleTurn(sessionID, ref)
			return
		}
	}

	next, ok := selection.NextSpeaker(session, last)
	if !ok || next == last.From {
		f.log.Debug("No next speaker, meeting waits for input", "session", sessionID)
		return
	}
	f.scheduleTurn(sessionID, next)
}

// scheduleQueued claims the next turn for the direct-address queue. The
// head target is popped only once its timer is armed; with another turn
// still pending it stays queued for the next scheduling point, so no
// named target is ever dropped.
func (f *Facilitator) scheduleQueued(sessionID domain.SessionID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.meetings[sessionID]
	if !ok || len(m.turnQueue) == 0 {
		return false
	}
	if f.armTurnLocked(sessionID, m, m.turnQueue[0]) {
		m.turnQueue = m.turnQueue[1:]
	}
	return true
}

// scheduleTurn arms the single pending-turn timer of a session. A turn
// already pending wins: two independently scheduled turns must never fire
// for the same session.
func (f *Facilitator) scheduleTurn(sessionID domain.SessionID, participantID domain.ParticipantID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.meetings[sessionID]
	if !ok {
		return
	}
	f.armTurnLocked(sessionID, m, participantID)
}

func (f *Facilitator) armTurnLocked(sessionID domain.SessionID, m *meeting, participantID domain.ParticipantID) bool {
	if !m.state.IsActive {
		return false
	}
	if m.pendingTurn != nil {
		f.log.Debug("Turn already pending, not scheduling",
			"session", sessionID, "pending", m.pendingFor, "skipped", participantID)
		return false
	}

	m.pendingFor = participantID
	m.pendingTurn = time.AfterFunc(f.opts.TurnDelay, func() {
		f.takeTurn(sessionID, participantID)
	})
	return true
}

func (f *Facilitator) cancelPendingLocked(m *meeting) {
	if m.pendingTurn != nil {
		m.pendingTurn.Stop()
		m.pendingTurn = nil
		m.pendingFor = ""
	}
	m.turnQueue = nil
}

// takeTurn runs when the pacing timer fires. The pending claim stays held
// through the responder call so no second turn can overlap a slow
// generation; the successful path releases it just before the reply's
// broadcast, the failing path here.
func (f *Facilitator) takeTurn(sessionID domain.SessionID, participantID domain.ParticipantID) {
	f.mu.Lock()
	m, ok := f.meetings[sessionID]
	if !ok || !m.state.IsActive {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	if err := f.RequestTurn(context.Background(), sessionID, participantID); err != nil {
		f.releasePending(sessionID)
		f.log.Error("Turn failed, meeting stalls until further input",
			"session", sessionID, "participant", participantID, "error", err)
	}
}

// releasePending drops the pending-turn claim, stopping the timer if it
// has not fired yet.
func (f *Facilitator) releasePending(sessionID domain.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.meetings[sessionID]
	if !ok || m.pendingTurn == nil {
		return
	}
	m.pendingTurn.Stop()
	m.pendingTurn = nil
	m.pendingFor = ""
}

// RequestTurn invokes a participant's response capability with the session
// context and full history, and broadcasts the reply. Responder calls are
// bounded by a timeout and retried with backoff; after the last attempt
// the meeting is left stalled for the watchdog to surface.
func (f *Facilitator) RequestTurn(ctx context.Context, sessionID domain.SessionID, participantID domain.ParticipantID) error {
	session, err := f.bus.Session(sessionID)
	if err != nil {
		return err
	}
	if !session.HasParticipant(participantID) {
		return fmt.Errorf("%w: %s", errors.ErrNotSessionParticipant, participantID)
	}

	f.mu.Lock()
	responder, ok := f.responders[participantID]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrNoResponder, participantID)
	}

	f.monitoring.TurnRequested()

	var lastErr error
	for attempt := 1; attempt <= f.opts.TurnAttempts; attempt++ {
		history, err := f.bus.History(sessionID)
		if err != nil {
			return err
		}

		message, err := f.generate(ctx, responder, session.Context, history)
		if err == nil {
			message.From = participantID
			return f.deliver(sessionID, message)
		}

		lastErr = err
		f.log.Warn("Responder attempt failed",
			"session", sessionID, "participant", participantID,
			"attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			f.monitoring.TurnFailed()
			return ctx.Err()
		case <-time.After(f.opts.RetryBackoff):
		}
	}

	f.monitoring.TurnFailed()
	return lastErr
}

func (f *Facilitator) generate(ctx context.Context, responder contract.Responder,
	meetingCtx domain.CollaborationContext, history []domain.AgentMessage) (domain.AgentMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.opts.TurnTimeout)
	defer cancel()
	return responder.GenerateResponse(attemptCtx, meetingCtx, history)
}

// deliver broadcasts a turn's result. The pending claim is released first
// so the broadcast's own event can schedule the successor turn; a reply
// landing after the meeting completed is discarded, never broadcast into
// a terminal session.
func (f *Facilitator) deliver(sessionID domain.SessionID, message domain.AgentMessage) error {
	f.releasePending(sessionID)
	err := f.bus.Broadcast(sessionID, message)
	if err == nil {
		return nil
	}
	if goerrors.Is(err, errors.ErrSessionCompleted) {
		f.log.Debug("Discarding reply for completed session", "session", sessionID)
		return nil
	}
	return err
}

// InjectMessage broadcasts externally supplied content attributed to the
// external-input identity. Named targets bypass the selector and are
// queued for immediate turns; a target without a seat rejects the whole
// injection before anything is broadcast.
func (f *Facilitator) InjectMessage(sessionID domain.SessionID, content string, directTo ...domain.ParticipantID) error {
	session, err := f.bus.Session(sessionID)
	if err != nil {
		return err
	}
	for _, target := range directTo {
		if !session.HasParticipant(target) {
			return fmt.Errorf("%w: %s", errors.ErrNotSessionParticipant, target)
		}
	}

	f.mu.Lock()
	m, ok := f.meetings[sessionID]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrMeetingNotFound, sessionID)
	}
	m.turnQueue = append(m.turnQueue, directTo...)
	f.mu.Unlock()

	message := domain.AgentMessage{
		From:    ExternalSenderID,
		To:      directTo,
		Type:    domain.MessageStatement,
		Content: content,
	}
	if err := f.bus.Broadcast(sessionID, message); err != nil {
		return err
	}

	// Direct address always wins: fire the first queued turn right away
	// instead of waiting for the broadcast to come back around.
	if len(directTo) > 0 {
		f.scheduleQueued(sessionID)
	}
	return nil
}

// EndMeeting completes the session, cancels any pending scheduled turn and
// marks the live state inactive.
func (f *Facilitator) EndMeeting(sessionID domain.SessionID) error {
	f.mu.Lock()
	m, ok := f.meetings[sessionID]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrMeetingNotFound, sessionID)
	}
	m.state.IsActive = false
	f.cancelPendingLocked(m)
	f.mu.Unlock()

	return f.bus.EndSession(sessionID)
}

// Progress returns a snapshot of the meeting's read model.
func (f *Facilitator) Progress(sessionID domain.SessionID) (LiveMeetingState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.meetings[sessionID]
	if !ok {
		return LiveMeetingState{}, fmt.Errorf("%w: %s", errors.ErrMeetingNotFound, sessionID)
	}
	return m.snapshot(), nil
}

// ActiveMeetings lists the live states the watchdog inspects.
func (f *Facilitator) ActiveMeetings() []LiveMeetingState {
	f.mu.Lock()
	defer f.mu.Unlock()

	var states []LiveMeetingState
	for _, m := range f.meetings {
		if m.state.IsActive {
			states = append(states, m.snapshot())
		}
	}
	return states
}
