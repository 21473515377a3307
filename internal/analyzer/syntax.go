package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckSyntax runs the shallow structural checks. Every check is
// independent and all failures accumulate; nothing short-circuits.
func CheckSyntax(sqlText string) []string {
	errors := make([]string, 0, 2)

	if strings.TrimSpace(sqlText) == "" {
		errors = append(errors, "SQL query is empty")
		return errors
	}

	if strings.Count(sqlText, "(") != strings.Count(sqlText, ")") {
		errors = append(errors, "Unbalanced parentheses in query")
	}
	if strings.Count(sqlText, "'")%2 != 0 {
		errors = append(errors, "Unbalanced single quotes in query")
	}

	tokens, err := lex(sqlText)
	if err != nil {
		errors = append(errors, fmt.Sprintf("SQL parsing error: %v", err))
		return errors
	}

	if !containsStatementKeyword(tokens) {
		errors = append(errors, "Query does not contain a recognized SQL statement type")
	}
	return errors
}

func containsStatementKeyword(tokens []token) bool {
	for _, tok := range tokens {
		if tok.kind != tokenWord {
			continue
		}
		upper := strings.ToUpper(tok.text)
		for _, keyword := range statementKeywords {
			if upper == keyword {
				return true
			}
		}
	}
	return false
}

// Patterns whose presence degrades structural confidence in the scoring
// pass. These are distinct from the security rule table: they feed the
// syntax sub-score, not the security findings.
var syntaxInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)';.*--`),
	regexp.MustCompile(`(?i)UNION.*SELECT`),
	regexp.MustCompile(`(?i)DROP\s+TABLE`),
	regexp.MustCompile(`(?i)DELETE\s+FROM.*WHERE\s+1\s*=\s*1`),
}

// scoreSyntax produces the syntax sub-score from a base of 100.
func scoreSyntax(sqlText string) (float64, []string) {
	score := 100.0
	issues := make([]string, 0, 2)
	upper := strings.ToUpper(strings.TrimSpace(sqlText))

	if !strings.Contains(upper, "SELECT") && !strings.Contains(upper, "INSERT") &&
		!strings.Contains(upper, "UPDATE") && !strings.Contains(upper, "DELETE") {
		score -= 50
		issues = append(issues, "No valid SQL statement detected")
	}
	if strings.Count(sqlText, "(") != strings.Count(sqlText, ")") {
		score -= 20
		issues = append(issues, "Unmatched parentheses")
	}
	for _, pattern := range syntaxInjectionPatterns {
		if pattern.MatchString(upper) {
			score -= 30
			issues = appendUnique(issues, fmt.Sprintf("Potential SQL injection pattern detected: %s", pattern.String()))
		}
	}
	if strings.Contains(upper, "SELECT *") {
		score -= 10
		issues = append(issues, "Consider specifying column names instead of SELECT *")
	}
	if !strings.Contains(upper, "WHERE") && !strings.Contains(upper, "JOIN") &&
		!strings.Contains(upper, "GROUP BY") && !strings.Contains(upper, "ORDER BY") {
		score -= 5
		issues = append(issues, "Query might benefit from filtering or sorting clauses")
	}

	return clampScore(score), issues
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// appendUnique deduplicates by exact text only; findings with distinct
// wording always accumulate.
func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
