// Package roster holds the static catalog of participant identities.
// The catalog is injected into the bus at construction, never a
// process-wide singleton, so independent bus instances can coexist.
package roster

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"collab-lab/domain"
	"collab-lab/errors"
)

var validate = validator.New()

type registration struct {
	ID        string   `validate:"required"`
	RoleName  string   `validate:"required"`
	Focus     string   `validate:"required,oneof=community analytics operations technical"`
	Expertise []string `validate:"required,min=1"`
}

// Catalog is the participant registry. Registration is append-only;
// an identity is immutable once registered.
type Catalog struct {
	mu    sync.RWMutex
	byID  map[domain.ParticipantID]domain.Participant
	order []domain.ParticipantID
}

func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[domain.ParticipantID]domain.Participant)}
}

func (c *Catalog) Register(p domain.Participant) error {
	req := registration{
		ID:        string(p.ID),
		RoleName:  p.Role.Name,
		Focus:     string(p.Role.PrimaryFocus),
		Expertise: p.Expertise,
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[p.ID]; ok {
		return fmt.Errorf("participant %s already registered", p.ID)
	}
	if p.Status == "" {
		p.Status = domain.StatusListening
	}
	c.byID[p.ID] = p
	c.order = append(c.order, p.ID)
	return nil
}

func (c *Catalog) Get(id domain.ParticipantID) (domain.Participant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Resolve maps ids to registered participants, preserving the caller's order.
// Unknown ids fail loudly instead of being silently dropped: a session built
// on a misspelled roster entry is a configuration error, not a smaller session.
func (c *Catalog) Resolve(ids []domain.ParticipantID) ([]domain.Participant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	participants := make([]domain.Participant, 0, len(ids))
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrUnknownParticipant, id)
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// All lists participants in registration order.
func (c *Catalog) All() []domain.Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	participants := make([]domain.Participant, 0, len(c.order))
	for _, id := range c.order {
		participants = append(participants, c.byID[id])
	}
	return participants
}
