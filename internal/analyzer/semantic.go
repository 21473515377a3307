package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

type intentRule struct {
	// keyword is matched as a case-insensitive substring of the natural
	// language text.
	keyword string
	// constructs are the SQL constructs expected when the keyword appears;
	// entries may be regular expressions (matched against uppercased SQL).
	constructs []*regexp.Regexp
}

func constructs(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}

var intentRules = []intentRule{
	{"retrieve", constructs(`\bSELECT\b`, `\bSHOW\b`)},
	{"count", constructs(`\bCOUNT\b`, `\bSUM\b`)},
	{"filter", constructs(`\bWHERE\b`, `\bHAVING\b`)},
	{"sort", constructs(`\bORDER BY\b`)},
	{"group", constructs(`\bGROUP BY\b`)},
	{"join", constructs(`\bJOIN\b`)},
	{"aggregate", constructs(`\bSUM\b`, `\bAVG\b`, `\bCOUNT\b`, `\bMAX\b`, `\bMIN\b`)},
	{"recent", constructs(`ORDER BY.*DESC`, `\bTOP\b`, `\bLIMIT\b`)},
	{"total", constructs(`\bSUM\b`, `\bCOUNT\b`)},
	{"average", constructs(`\bAVG\b`)},
	{"maximum", constructs(`\bMAX\b`)},
	{"minimum", constructs(`\bMIN\b`)},
}

var timeIndicators = []string{"today", "yesterday", "last week", "last month", "this month", "recent"}

var dateConstructPattern = regexp.MustCompile(`\b(DATE|GETDATE|GETUTCDATE|NOW\(\)|CURDATE|DATEADD|DATEDIFF)`)

// semanticBaseScore reflects the inherent uncertainty of intent matching:
// even a well-aligned query only starts at 70 and earns its way up.
const semanticBaseScore = 70

// ScoreAlignment compares the natural-language intent against the SQL
// constructs actually present. Without natural language it returns the
// neutral base score with one informational issue.
func ScoreAlignment(sqlText, naturalLanguage, schemaContext string) (float64, []string) {
	if strings.TrimSpace(naturalLanguage) == "" {
		return semanticBaseScore, []string{"No natural language context provided"}
	}

	score := float64(semanticBaseScore)
	issues := make([]string, 0, 2)
	nlLower := strings.ToLower(naturalLanguage)
	sqlUpper := strings.ToUpper(sqlText)

	for _, rule := range intentRules {
		if !strings.Contains(nlLower, rule.keyword) {
			continue
		}
		if anyConstructPresent(sqlUpper, rule.constructs) {
			score += 5
		} else {
			score -= 15
			issues = append(issues, fmt.Sprintf("Natural language suggests '%s' but SQL query doesn't reflect this", rule.keyword))
		}
	}

	// Temporal scope in the request without date filtering in the query is
	// a correctness signal, not a style nit.
	for _, indicator := range timeIndicators {
		if !strings.Contains(nlLower, indicator) {
			continue
		}
		if !dateConstructPattern.MatchString(sqlUpper) {
			score -= 20
			issues = append(issues, "Natural language mentions time constraints but query lacks date filtering")
		}
		break
	}

	if schemaContext != "" {
		score, issues = checkSchemaMentions(score, issues, nlLower, sqlUpper, schemaContext)
	}

	return clampScore(score), issues
}

var nlWordPattern = regexp.MustCompile(`\b\w+\b`)

// checkSchemaMentions flags natural-language tokens that name a known table
// or column but never appear in the SQL, as a possible omission.
func checkSchemaMentions(score float64, issues []string, nlLower, sqlUpper, schemaContext string) (float64, []string) {
	schemaLower := strings.ToLower(schemaContext)
	seen := map[string]bool{}

	for _, word := range nlWordPattern.FindAllString(nlLower, -1) {
		if len(word) < 3 || seen[word] {
			continue
		}
		seen[word] = true
		if !strings.Contains(schemaLower, word) {
			continue
		}
		if !strings.Contains(sqlUpper, strings.ToUpper(word)) {
			score -= 10
			issues = append(issues, fmt.Sprintf("Mentioned table '%s' not found in query", word))
		}
	}
	return score, issues
}

func anyConstructPresent(sqlUpper string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(sqlUpper) {
			return true
		}
	}
	return false
}
