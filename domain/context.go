package domain

import "time"

// CollaborationContext frames a session: what is discussed and under which
// constraints. Supplied at creation, immutable for the life of the session.
type CollaborationContext struct {
	Topic          string
	Background     string
	Objectives     []string
	Constraints    []string
	Considerations []string
	TimeLimit      *time.Duration
}

// WithDefaults fills the gaps of a partially supplied context.
// The topic always wins over whatever the override carries.
func (c CollaborationContext) WithDefaults(topic string) CollaborationContext {
	c.Topic = topic
	if c.Background == "" {
		c.Background = "No background information provided"
	}
	if len(c.Objectives) == 0 {
		c.Objectives = []string{"Reach a shared understanding of the topic"}
	}
	return c
}
