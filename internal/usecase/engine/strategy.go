package engine

import (
	"regexp"
	"strings"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Strategy is the chosen resolution path for a question.
type Strategy string

const (
	// StrategyDirectSQL resolves the question with a structured query.
	StrategyDirectSQL Strategy = "direct_sql"
	// StrategyVectorSearch resolves the question from semantic context only.
	StrategyVectorSearch Strategy = "vector_search"
)

// Decision is a strategy plus the rule that triggered it. The rule name
// exists for the thinking trace and tests; it is never persisted.
type Decision struct {
	Strategy Strategy
	Rule     string
}

// Order identifiers are fixed-width five-digit runs, optionally preceded
// by "order", "order id", or "invoice".
var orderIDPattern = regexp.MustCompile(`(?i)\b(?:(?:order|invoice)(?:\s+id)?[\s#:]*)?(\d{5})\b`)

// ExtractOrderID returns the first order identifier token in the
// question, if any. A match short-circuits all ranking: the question is
// resolved by direct lookup on that identifier.
func ExtractOrderID(question string) (string, bool) {
	m := orderIDPattern.FindStringSubmatch(question)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Keyword families and structural patterns indicating the answer lives
// in the relational store rather than in semantic context.
var (
	aggregationKeywords = []string{
		"how many", "count", "total", "sum", "average",
		"most", "least", "top", "bottom",
	}
	enumerationKeywords = []string{"all orders", "all customers", "all products"}

	namedEntityPattern   = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
	datedQueryPattern    = regexp.MustCompile(`(?i)\bdated\b\s*\d|\b\d{4}-\d{2}-\d{2}\b`)
	priceEqualityPattern = regexp.MustCompile(`(?i)\b(?:total|price|amount)\b[^.]*?\$?\d+(?:\.\d+)?`)
)

// rule is one (predicate, decision) pair. Rules are data so each is
// independently testable and the chain extends without touching Classify.
type rule struct {
	name    string
	matches func(question, lower string, filters *domain.FilterContext) bool
}

var strategyRules = []rule{
	{
		name: "exact_order_id",
		matches: func(question, _ string, _ *domain.FilterContext) bool {
			_, ok := ExtractOrderID(question)
			return ok
		},
	},
	{
		name: "aggregation_keywords",
		matches: func(_, lower string, _ *domain.FilterContext) bool {
			return containsAny(lower, aggregationKeywords)
		},
	},
	{
		name: "enumeration_keywords",
		matches: func(_, lower string, _ *domain.FilterContext) bool {
			return containsAny(lower, enumerationKeywords)
		},
	},
	{
		name: "named_entity",
		matches: func(question, _ string, _ *domain.FilterContext) bool {
			return namedEntityPattern.MatchString(question)
		},
	},
	{
		name: "dated_query",
		matches: func(question, _ string, _ *domain.FilterContext) bool {
			return datedQueryPattern.MatchString(question)
		},
	},
	{
		name: "price_equality",
		matches: func(question, _ string, _ *domain.FilterContext) bool {
			return priceEqualityPattern.MatchString(question)
		},
	},
	{
		// Fires only when the question references an extracted customer.
		// Every hit carries an order id, so raw entity presence would
		// make the vector default unreachable; identifier mentions are
		// already caught by exact_order_id.
		name: "filter_entities",
		matches: func(_, lower string, filters *domain.FilterContext) bool {
			if filters == nil {
				return false
			}
			for _, c := range filters.SortedCustomers() {
				if strings.Contains(lower, strings.ToLower(c)) {
					return true
				}
			}
			return false
		},
	},
}

// Classify routes a question. Rules are evaluated in priority order and
// the first match wins: identifier short-circuit dominates keyword
// families, which dominate entity presence, which dominates the
// vector-search default.
func Classify(question string, filters *domain.FilterContext) Decision {
	lower := strings.ToLower(question)
	for _, r := range strategyRules {
		if r.matches(question, lower, filters) {
			return Decision{Strategy: StrategyDirectSQL, Rule: r.name}
		}
	}
	return Decision{Strategy: StrategyVectorSearch, Rule: "default"}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
