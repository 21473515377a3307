package analyzer

import "regexp"

type securityRule struct {
	pattern *regexp.Regexp
	message string
	penalty float64
}

// The rule table is ordered and data-driven so each rule can be tested in
// isolation. Matching runs against the whole query text, not per token,
// because injection fragments routinely span token boundaries.
var securityRules = []securityRule{
	{regexp.MustCompile(`(?i)';.*--`), "Potential SQL injection with comment termination", 30},
	{regexp.MustCompile(`(?i)\bUNION\b.*\bSELECT\b`), "UNION-based injection pattern", 30},
	{regexp.MustCompile(`(?i);\s*(DROP|DELETE|TRUNCATE|UPDATE|INSERT)\b`), "Stacked mutating statement after semicolon", 30},
	{regexp.MustCompile(`(?i)\bDROP\s+TABLE\b`), "Dangerous DROP statement", 30},
	{regexp.MustCompile(`(?i)\bSHUTDOWN\b`), "System shutdown command", 30},
	{regexp.MustCompile(`(?i)\bxp_cmdshell\b`), "Command shell execution", 30},
	{regexp.MustCompile(`(?i)\bsp_executesql\b`), "Dynamic SQL via sp_executesql", 30},
	{regexp.MustCompile(`(?i)\bsp_oacreate\b`), "OLE automation procedure access", 30},
	{regexp.MustCompile(`(?i)\bsp_oamethod\b`), "OLE automation procedure access", 30},
	{regexp.MustCompile(`(?i)\bsp_configure\b`), "System configuration access", 30},
	{regexp.MustCompile(`(?i)\bopenrowset\b`), "Ad hoc remote rowset access", 30},
	{regexp.MustCompile(`(?i)\bopendatasource\b`), "Ad hoc remote data source access", 30},
	{regexp.MustCompile(`(?i)\bEXEC(UTE)?\s*\(`), "Dynamic SQL execution detected", 30},
	{regexp.MustCompile(`(?i)(PASSWORD|PWD)\s*=`), "Hardcoded credentials detected", 40},
	{regexp.MustCompile(`(?i)\bWHERE\s+1\s*=\s*1\b`), "Overly permissive WHERE clause (1=1)", 20},
	{regexp.MustCompile(`(?i)\b(sys|information_schema)\.`), "Access to system tables detected - ensure this is intentional", 10},
}

var parameterMarkerPattern = regexp.MustCompile(`=\s*(@\w+|\?)`)

// ScanSecurity scores the query against the security rule table. Every
// matching rule deducts its penalty from 100; this is a linear model, not a
// worst-case classification. A parameter marker earns a small bonus.
func ScanSecurity(sqlText string) (float64, []string) {
	score := 100.0
	findings := make([]string, 0, 2)

	for _, rule := range securityRules {
		if !rule.pattern.MatchString(sqlText) {
			continue
		}
		before := len(findings)
		findings = appendUnique(findings, rule.message)
		if len(findings) > before {
			score -= rule.penalty
		}
	}

	if parameterMarkerPattern.MatchString(sqlText) {
		score += 10
		findings = append(findings, "Good: Parameterized query detected")
	}

	return clampScore(score), findings
}
