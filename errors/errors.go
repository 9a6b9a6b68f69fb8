package errors

import "fmt"

var (
	ErrWorkerPanic           = fmt.Errorf("worker panic")
	ErrSessionNotFound       = fmt.Errorf("session not found")
	ErrSessionCompleted      = fmt.Errorf("session already completed")
	ErrSessionAlreadyStarted = fmt.Errorf("session already started")
	ErrNoParticipants        = fmt.Errorf("session requires at least one participant")
	ErrUnknownParticipant    = fmt.Errorf("participant not registered in catalog")
	ErrNotSessionParticipant = fmt.Errorf("participant not part of this session")
	ErrNoResponder           = fmt.Errorf("no responder registered for participant")
	ErrMeetingNotFound       = fmt.Errorf("meeting not found")
	ErrEmptyLexicon          = fmt.Errorf("no keywords have been found")
)
