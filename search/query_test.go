package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		terms   string
		session string
		limit   int
	}{
		{
			name:  "bare terms",
			input: "evening schedule",
			terms: "evening schedule",
			limit: 10,
		},
		{
			name:  "command prefix is not a term",
			input: `/find "staffing"`,
			terms: "staffing",
			limit: 10,
		},
		{
			name:    "session filter and limit",
			input:   `/find budget --session 6f1c --limit 5`,
			terms:   "budget",
			session: "6f1c",
			limit:   5,
		},
		{
			name:  "invalid limit keeps the default",
			input: "venue --limit zero",
			terms: "venue",
			limit: 10,
		},
		{
			name:  "flags may precede the terms",
			input: "--limit 3 wellness program",
			terms: "wellness program",
			limit: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			query := ParseQuery(tt.input)
			req.Equal(tt.terms, query.Terms)
			req.Equal(tt.session, query.SessionID)
			req.Equal(tt.limit, query.Limit)
			req.Equal(tt.input, query.RawInput)
		})
	}
}
