package analyzer

import (
	"regexp"
	"strings"
)

type performanceRule struct {
	match   func(upper string) bool
	message string
	delta   float64
}

var (
	selectStarPattern      = regexp.MustCompile(`(?i)SELECT\s+\*`)
	leadingWildcardPattern = regexp.MustCompile(`(?i)LIKE\s+N?'%`)
	predicateFuncPattern   = regexp.MustCompile(`(?i)WHERE\s+.*\w+\s*\(.*\)\s*=`)
	rowLimitPattern        = regexp.MustCompile(`(?i)\b(LIMIT\s+\d+|TOP\s*\(?\s*\d+)`)
)

// Performance starts from 80, not 100: a query with no anti-patterns still
// usually has tuning headroom.
const performanceBaseScore = 80

var performanceRules = []performanceRule{
	{
		match:   func(upper string) bool { return selectStarPattern.MatchString(upper) },
		message: "Replace SELECT * with specific column names to improve performance",
		delta:   -15,
	},
	{
		match:   func(upper string) bool { return leadingWildcardPattern.MatchString(upper) },
		message: "Leading wildcard in LIKE clause can prevent index usage",
		delta:   -20,
	},
	{
		match: func(upper string) bool {
			return strings.Contains(upper, "ORDER BY") && !rowLimitPattern.MatchString(upper)
		},
		message: "Consider adding LIMIT/TOP clause when ordering results",
		delta:   -10,
	},
	{
		match:   func(upper string) bool { return predicateFuncPattern.MatchString(upper) },
		message: "Functions in WHERE clause may prevent index usage",
		delta:   -10,
	},
	{
		match: func(upper string) bool {
			return (strings.Contains(upper, "UPDATE") || strings.Contains(upper, "DELETE")) &&
				!strings.Contains(upper, "WHERE")
		},
		message: "UPDATE/DELETE without WHERE clause can affect performance and data integrity",
		delta:   -30,
	},
	{
		match:   func(upper string) bool { return strings.Contains(upper, "DISTINCT") },
		message: "DISTINCT can be expensive - ensure it's necessary",
		delta:   -5,
	},
	{
		match: func(upper string) bool {
			return strings.Count(upper, "SELECT")-1 > 2
		},
		message: "Multiple subqueries detected - consider using JOINs for better performance",
		delta:   -15,
	},
	{
		match:   func(upper string) bool { return rowLimitPattern.MatchString(upper) },
		message: "Good: Query limits result set size",
		delta:   10,
	},
	{
		match: func(upper string) bool {
			return strings.Contains(upper, "INDEX") || strings.Contains(upper, "INDEXED")
		},
		message: "Good: Query appears to consider indexing",
		delta:   10,
	},
}

// AnalyzePerformance folds the heuristics table over the query text.
// Suggestions are ordered as the rules are and deduplicated by exact text
// only, never merged by meaning.
func AnalyzePerformance(sqlText string) (float64, []string) {
	score := float64(performanceBaseScore)
	suggestions := make([]string, 0, 2)
	upper := strings.ToUpper(sqlText)

	for _, rule := range performanceRules {
		if !rule.match(upper) {
			continue
		}
		before := len(suggestions)
		suggestions = appendUnique(suggestions, rule.message)
		if len(suggestions) > before {
			score += rule.delta
		}
	}

	return clampScore(score), suggestions
}
