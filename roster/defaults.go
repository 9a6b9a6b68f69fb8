package roster

import "collab-lab/domain"

// Default builds the four-seat roster used by the demo and the tests:
// a community lead, a data analyst, an operations strategist and a
// technical coordinator.
func Default() *Catalog {
	catalog := NewCatalog()
	for _, p := range []domain.Participant{
		{
			ID: "community-lead",
			Role: domain.Role{
				Name:               "Community Wellness Lead",
				Specializations:    []string{"community leadership", "cultural programs", "wellness"},
				CommunicationStyle: "warm and inclusive",
				PrimaryFocus:       domain.FocusCommunity,
			},
			Expertise: []string{"community engagement", "cultural safety", "program facilitation"},
		},
		{
			ID: "data-analyst",
			Role: domain.Role{
				Name:               "Data Analyst",
				Specializations:    []string{"data analysis", "research methods", "reporting"},
				CommunicationStyle: "precise and evidence-driven",
				PrimaryFocus:       domain.FocusAnalytics,
			},
			Expertise: []string{"statistics", "survey design", "trend analysis"},
		},
		{
			ID: "ops-strategist",
			Role: domain.Role{
				Name:               "Operations Strategist",
				Specializations:    []string{"business planning", "cost control", "cloud operations"},
				CommunicationStyle: "pragmatic",
				PrimaryFocus:       domain.FocusOperations,
			},
			Expertise: []string{"budgeting", "vendor management", "aws"},
		},
		{
			ID: "tech-coordinator",
			Role: domain.Role{
				Name:               "Technical Coordinator",
				Specializations:    []string{"architecture", "integration", "delivery"},
				CommunicationStyle: "structured",
				PrimaryFocus:       domain.FocusTechnical,
			},
			Expertise: []string{"system design", "apis", "tooling"},
		},
	} {
		// Default seats are hand-written and always valid.
		_ = catalog.Register(p)
	}
	return catalog
}
