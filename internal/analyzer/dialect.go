package analyzer

import (
	"regexp"
	"strings"
)

type dialectNotice struct {
	pattern *regexp.Regexp
	message string
}

// SQL Server specific notices. These are warnings, never errors: the query
// still runs, it is just carrying a deprecated or risky construct.
var dialectNotices = []dialectNotice{
	{regexp.MustCompile(`(?i)\bTEXT\b`), "TEXT data type is deprecated, use VARCHAR(MAX)"},
	{regexp.MustCompile(`(?i)\bNTEXT\b`), "NTEXT data type is deprecated, use NVARCHAR(MAX)"},
	{regexp.MustCompile(`(?i)\bIMAGE\b`), "IMAGE data type is deprecated, use VARBINARY(MAX)"},
	{regexp.MustCompile(`(?i)\bTIMESTAMP\b`), "TIMESTAMP is deprecated, use ROWVERSION"},
	{regexp.MustCompile(`(?i)\bNOLOCK\b`), "NOLOCK hint can cause dirty reads - use carefully"},
}

var (
	unqualifiedFromPattern = regexp.MustCompile(`(?i)\bFROM\s+\w+(\s|$)`)
	slashDatePattern       = regexp.MustCompile(`'[0-9]{1,2}/[0-9]{1,2}/[0-9]{4}'`)
)

// CheckDialect surfaces SQL Server dialect notices for the query.
func CheckDialect(sqlText string) []string {
	warnings := make([]string, 0, 2)

	for _, notice := range dialectNotices {
		if notice.pattern.MatchString(sqlText) {
			warnings = appendUnique(warnings, notice.message)
		}
	}

	if unqualifiedFromPattern.MatchString(sqlText) && !strings.Contains(strings.ToLower(sqlText), "dbo.") {
		warnings = append(warnings, "Consider using schema-qualified table names (e.g. dbo.TableName)")
	}
	if slashDatePattern.MatchString(sqlText) {
		warnings = append(warnings, "Use ISO date format (YYYY-MM-DD) for better portability")
	}

	return warnings
}
