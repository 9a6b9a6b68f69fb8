package search

import (
	"strconv"
	"strings"
)

// Query represents the structured parameters of a transcript search.
// It decouples raw command input from the index engine requirements.
type Query struct {
	RawInput  string // the original command text
	Terms     string // the actual text to search in the index
	SessionID string // optional session filter
	Limit     int    // number of results
}

// ParseQuery extracts command-line style arguments from a raw string.
// Example: /find "staffing" --session 6f1c --limit 5
func ParseQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    10, // default limit
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "session":
				query.SessionID = val
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++ // skip the value part in next iteration
			continue
		}

		// If it's not a flag, it's a search term
		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, strings.Trim(part, `"`))
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
