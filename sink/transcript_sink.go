// Package sink holds the boundary subscribers of the bus: archival,
// projections and search. None of them feeds back into the core loop.
package sink

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/repositories"
)

// TranscriptSink archives every broadcast message. Persistence stays at
// the boundary: the core loop never reads the archive back.
type TranscriptSink struct {
	repository repositories.ITranscriptRepository
	log        *slog.Logger
}

func NewTranscriptSink(repository repositories.ITranscriptRepository, log *slog.Logger) *TranscriptSink {
	return &TranscriptSink{repository: repository, log: log}
}

func (s *TranscriptSink) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageBroadcast)
	if !ok {
		return nil
	}
	return s.repository.Store(toEntry(evt))
}

func toEntry(evt event.MessageBroadcast) repositories.TranscriptEntry {
	return repositories.TranscriptEntry{
		ID:      evt.Message.ID,
		Session: string(evt.Session),
		From:    string(evt.Message.From),
		Type:    string(evt.Message.Type),
		Content: evt.Message.Content,
		ReferencedAgents: lo.Map(evt.Message.ReferencedAgents, func(id domain.ParticipantID, _ int) string {
			return string(id)
		}),
		At: evt.Message.At,
	}
}
