// Package responder provides built-in participant response capabilities.
// The real capability is external (model-backed or human-proxied); the
// scripted one stands in for it in demos and tests.
package responder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"collab-lab/domain"
)

// Scripted replays a fixed list of lines in order, cycling when exhausted.
// A configurable delay simulates the latency of a remote capability and
// honors context cancellation, like the real thing must.
type Scripted struct {
	mu    sync.Mutex
	lines []string
	next  int
	delay time.Duration
}

func NewScripted(delay time.Duration, lines ...string) *Scripted {
	return &Scripted{lines: lines, delay: delay}
}

func (s *Scripted) GenerateResponse(ctx context.Context, _ domain.CollaborationContext, _ []domain.AgentMessage) (domain.AgentMessage, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return domain.AgentMessage{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return domain.AgentMessage{}, fmt.Errorf("scripted responder has no lines")
	}
	line := s.lines[s.next%len(s.lines)]
	s.next++
	s.mu.Unlock()

	return domain.AgentMessage{
		Type:             messageType(line),
		Content:          line,
		ReferencedAgents: mentions(line),
	}, nil
}

func messageType(line string) domain.MessageType {
	if strings.HasSuffix(strings.TrimSpace(line), "?") {
		return domain.MessageQuestion
	}
	return domain.MessageStatement
}

// mentions extracts "@participant-id" tokens so scripted lines can drive
// reference-based speaker selection.
func mentions(line string) []domain.ParticipantID {
	var refs []domain.ParticipantID
	for _, token := range strings.Fields(line) {
		if !strings.HasPrefix(token, "@") {
			continue
		}
		id := strings.TrimRight(strings.TrimPrefix(token, "@"), ".,;:!?")
		if id != "" {
			refs = append(refs, domain.ParticipantID(id))
		}
	}
	return refs
}
