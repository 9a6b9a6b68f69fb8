package roster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"collab-lab/domain"
	"collab-lab/errors"
)

func TestCatalog_Register_And_Get(t *testing.T) {
	req := require.New(t)
	catalog := NewCatalog()

	// Given a valid participant
	p := domain.Participant{
		ID:        "data-analyst",
		Role:      domain.Role{Name: "Data Analyst", PrimaryFocus: domain.FocusAnalytics},
		Expertise: []string{"statistics"},
	}

	// When it is registered
	req.NoError(catalog.Register(p))

	// Then it can be resolved and defaults to listening
	got, ok := catalog.Get("data-analyst")
	req.True(ok)
	req.Equal(domain.StatusListening, got.Status)

	// And registering the same id twice fails
	req.Error(catalog.Register(p))
}

func TestCatalog_Register_Rejects_Invalid(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		name        string
		participant domain.Participant
	}{
		{
			name:        "missing id",
			participant: domain.Participant{Role: domain.Role{Name: "X", PrimaryFocus: domain.FocusTechnical}, Expertise: []string{"a"}},
		},
		{
			name:        "missing role name",
			participant: domain.Participant{ID: "x", Role: domain.Role{PrimaryFocus: domain.FocusTechnical}, Expertise: []string{"a"}},
		},
		{
			name:        "unknown focus",
			participant: domain.Participant{ID: "x", Role: domain.Role{Name: "X", PrimaryFocus: "astrology"}, Expertise: []string{"a"}},
		},
		{
			name:        "no expertise",
			participant: domain.Participant{ID: "x", Role: domain.Role{Name: "X", PrimaryFocus: domain.FocusTechnical}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, catalog.Register(tt.participant))
		})
	}
}

func TestCatalog_Resolve_Fails_On_Unknown(t *testing.T) {
	req := require.New(t)
	catalog := Default()

	// When resolving a list that contains an unknown id
	_, err := catalog.Resolve([]domain.ParticipantID{"community-lead", "ghost"})

	// Then the whole resolution fails, nothing is silently dropped
	req.ErrorIs(err, errors.ErrUnknownParticipant)
}

func TestCatalog_Resolve_Preserves_Order(t *testing.T) {
	req := require.New(t)
	catalog := Default()

	participants, err := catalog.Resolve([]domain.ParticipantID{"tech-coordinator", "community-lead"})
	req.NoError(err)
	req.Len(participants, 2)
	req.Equal(domain.ParticipantID("tech-coordinator"), participants[0].ID)
	req.Equal(domain.ParticipantID("community-lead"), participants[1].ID)
}

func TestDefault_Roster_Covers_All_Focuses(t *testing.T) {
	req := require.New(t)
	all := Default().All()
	req.Len(all, 4)

	focuses := make(map[domain.Focus]bool)
	for _, p := range all {
		focuses[p.Role.PrimaryFocus] = true
	}
	req.True(focuses[domain.FocusCommunity])
	req.True(focuses[domain.FocusAnalytics])
	req.True(focuses[domain.FocusOperations])
	req.True(focuses[domain.FocusTechnical])
}
