package sink

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/repositories"
)

// fakeTranscripts records stored entries in memory.
type fakeTranscripts struct {
	stored []repositories.TranscriptEntry
}

func (f *fakeTranscripts) Store(entry repositories.TranscriptEntry) error {
	f.stored = append(f.stored, entry)
	return nil
}

func (f *fakeTranscripts) Entries(domain.SessionID, *string) ([]repositories.TranscriptEntry, *string, error) {
	return nil, nil, nil
}

func TestTranscriptSink_Archives_Broadcasts(t *testing.T) {
	req := require.New(t)
	transcripts := &fakeTranscripts{}
	s := NewTranscriptSink(transcripts, logs.GetLoggerFromLevel(slog.LevelDebug))

	message := domain.AgentMessage{
		ID:               uuid.New(),
		From:             "community-lead",
		At:               time.Now().UTC(),
		Type:             domain.MessageQuestion,
		Content:          "What does the survey say, @data-analyst?",
		ReferencedAgents: []domain.ParticipantID{"data-analyst"},
	}
	req.NoError(s.Consume(context.Background(), event.MessageBroadcast{
		Session: "session-1",
		Message: message,
	}))

	req.Len(transcripts.stored, 1)
	entry := transcripts.stored[0]
	req.Equal(message.ID, entry.ID)
	req.Equal("session-1", entry.Session)
	req.Equal("community-lead", entry.From)
	req.Equal("question", entry.Type)
	req.Equal([]string{"data-analyst"}, entry.ReferencedAgents)
}

func TestTranscriptSink_Ignores_Lifecycle_Events(t *testing.T) {
	req := require.New(t)
	transcripts := &fakeTranscripts{}
	s := NewTranscriptSink(transcripts, logs.GetLoggerFromLevel(slog.LevelDebug))

	req.NoError(s.Consume(context.Background(), event.SessionCreated{Session: "session-1"}))
	req.NoError(s.Consume(context.Background(), event.SessionEnded{Session: "session-1"}))

	req.Empty(transcripts.stored)
}
