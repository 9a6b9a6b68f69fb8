package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"collab-lab/domain"
	"collab-lab/roster"
)

func sessionWith(topic string, ids ...domain.ParticipantID) domain.Session {
	catalog := roster.Default()
	participants, err := catalog.Resolve(ids)
	if err != nil {
		panic(err)
	}
	return domain.Session{ID: "s-1", Topic: topic, Participants: participants}
}

func TestNextSpeaker_Reference_Wins_Over_Topic(t *testing.T) {
	req := require.New(t)
	session := sessionWith("community wellness planning", "community-lead", "data-analyst")

	// Given the last message references the analyst by name
	last := domain.AgentMessage{
		From:             "community-lead",
		Content:          "what do the numbers say?",
		ReferencedAgents: []domain.ParticipantID{"data-analyst"},
	}

	// Then the reference wins regardless of topic content
	next, ok := NextSpeaker(session, last)
	req.True(ok)
	req.Equal(domain.ParticipantID("data-analyst"), next)
}

func TestNextSpeaker_Ignores_References_Outside_Session(t *testing.T) {
	req := require.New(t)
	session := sessionWith("community wellness planning", "community-lead", "tech-coordinator")

	// Given a reference to someone who holds no seat here
	last := domain.AgentMessage{
		From:             "tech-coordinator",
		ReferencedAgents: []domain.ParticipantID{"ops-strategist"},
	}

	// Then routing falls through to the topic rule
	next, ok := NextSpeaker(session, last)
	req.True(ok)
	req.Equal(domain.ParticipantID("community-lead"), next)
}

func TestNextSpeaker_Topic_Routing(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		expected domain.ParticipantID
	}{
		{name: "cultural topic", topic: "Cultural festival outreach", expected: "community-lead"},
		{name: "wellness topic", topic: "workplace wellness survey", expected: "community-lead"},
		{name: "data topic", topic: "quarterly DATA review", expected: "data-analyst"},
		{name: "research topic", topic: "research methodology", expected: "data-analyst"},
		{name: "cost topic", topic: "cost of the aws migration", expected: "ops-strategist"},
		{name: "default topic", topic: "miscellaneous housekeeping", expected: "tech-coordinator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			session := sessionWith(tt.topic,
				"community-lead", "data-analyst", "ops-strategist", "tech-coordinator")

			next, ok := NextSpeaker(session, domain.AgentMessage{From: "someone-else"})
			req.True(ok)
			req.Equal(tt.expected, next)
		})
	}
}

func TestNextSpeaker_No_Candidate_In_Session(t *testing.T) {
	req := require.New(t)
	// Given a cultural topic but no community seat at the table
	session := sessionWith("cultural program budget", "data-analyst")

	// Then there is no next speaker, and no fallback is invented
	_, ok := NextSpeaker(session, domain.AgentMessage{From: "data-analyst"})
	req.False(ok)
}

func TestNextSpeaker_May_Repeat_Previous_Speaker(t *testing.T) {
	req := require.New(t)
	session := sessionWith("community wellness planning", "community-lead", "data-analyst")

	// The selector itself does not forbid repeating the author;
	// that guard belongs to the facilitator.
	next, ok := NextSpeaker(session, domain.AgentMessage{From: "community-lead"})
	req.True(ok)
	req.Equal(domain.ParticipantID("community-lead"), next)
}
