package vector

import (
	"fmt"
	"regexp"
)

// Order identifiers are fixed-width five-digit runs; capitalized word
// pairs are treated as customer names. Both patterns can false-positive
// on free text; that is a documented weakness of the heuristic, not a
// failure condition.
var (
	orderTokenPattern   = regexp.MustCompile(`\b(\d{5})\b`)
	customerNamePattern = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
)

// enhanceQuery prepends emphasis tokens for identifiers the raw question
// mentions, so the embedded query lands closer to the matching documents.
func enhanceQuery(query string) string {
	enhanced := query

	if m := orderTokenPattern.FindStringSubmatch(query); m != nil {
		enhanced = fmt.Sprintf("order %s invoice %s order ID %s %s", m[1], m[1], m[1], enhanced)
	}

	if m := customerNamePattern.FindStringSubmatch(query); m != nil {
		enhanced = fmt.Sprintf("customer %s %s", m[1], enhanced)
	}

	return enhanced
}
