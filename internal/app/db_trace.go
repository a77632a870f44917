package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Long placeholder lists come from IN filters over game and team ids and
	// from multi-row upserts of stat lines.
	placeholderListRegex = regexp.MustCompile(`\(\$(\d+)(?:, \$\d+){3,}, \$(\d+)\)`)
)

// formatDBQueryForTrace flattens a statement onto one line and folds long
// placeholder lists so the table and predicates survive truncation.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = placeholderListRegex.ReplaceAllString(normalized, "($$$1..$$$2)")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
