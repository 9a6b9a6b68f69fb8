// Package selection decides who speaks next. Selection is stateless and
// pure: repeat-avoidance is a facilitation policy, not a routing fact,
// and lives in the facilitator.
package selection

import (
	"strings"

	"collab-lab/domain"
)

// routingRule maps topic keywords to the focus that should pick up the turn.
// First matching rule wins; rules are checked in declaration order.
type routingRule struct {
	keywords []string
	focus    domain.Focus
}

var routingTable = []routingRule{
	{keywords: []string{"cultural", "wellness", "community"}, focus: domain.FocusCommunity},
	{keywords: []string{"data", "analysis", "research"}, focus: domain.FocusAnalytics},
	{keywords: []string{"business", "cost", "aws"}, focus: domain.FocusOperations},
}

// NextSpeaker resolves the next participant for a session given the last
// broadcast message. Explicit references win over topic routing. Returns
// false when no participant of the session fits: the caller must handle
// "no next speaker".
func NextSpeaker(session domain.Session, lastMessage domain.AgentMessage) (domain.ParticipantID, bool) {
	for _, ref := range lastMessage.ReferencedAgents {
		if session.HasParticipant(ref) {
			return ref, true
		}
	}
	return byTopic(session)
}

func byTopic(session domain.Session) (domain.ParticipantID, bool) {
	topic := strings.ToLower(session.Topic)

	focus := domain.FocusTechnical
	for _, rule := range routingTable {
		if containsAny(topic, rule.keywords) {
			focus = rule.focus
			break
		}
	}

	for _, p := range session.Participants {
		if p.Role.PrimaryFocus == focus {
			return p.ID, true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
