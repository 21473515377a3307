package analyzer

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

const sampleRowLimit = 5

var topClausePattern = regexp.MustCompile(`(?i)\b(TOP\s*\(?\s*\d+|LIMIT\s+\d+)`)

// EnsureRowLimit injects a TOP clause after the first SELECT when the query
// has no row-limiting clause of its own, so a live verification can never
// materialize an unbounded result set.
func EnsureRowLimit(sqlText string, rowCap int) string {
	if rowCap <= 0 {
		rowCap = DefaultRowLimit
	}
	if topClausePattern.MatchString(sqlText) {
		return sqlText
	}
	selectPattern := regexp.MustCompile(`(?i)\bSELECT\b`)
	loc := selectPattern.FindStringIndex(sqlText)
	if loc == nil {
		return sqlText
	}
	return sqlText[:loc[1]] + " TOP " + strconv.Itoa(rowCap) + sqlText[loc[1]:]
}

// verifyExecution runs the candidate against the supplied handle. The
// read-only check is repeated here independently of the classifier gate;
// a handle must never see a mutating statement even if the gate was
// bypassed. Failures come back as data, never as an abort.
func verifyExecution(ctx context.Context, sub Submission, handle ExecutionHandle) ExecutionReport {
	report := ExecutionReport{Attempted: true}

	if !Classify(sub.RawSQL).ReadOnly {
		report.Error = "only read-only SELECT queries are executed for verification"
		return report
	}

	rowCap := sub.RowLimit
	if rowCap <= 0 {
		rowCap = DefaultRowLimit
	}
	capped := EnsureRowLimit(sub.RawSQL, rowCap)

	result, err := handle.ExecuteSelect(ctx, capped, rowCap)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Success = true
	report.Elapsed = result.Elapsed
	report.ElapsedSec = result.Elapsed.Seconds()
	report.RowCount = len(result.Rows)
	report.Columns = result.Columns
	report.SampleRows = result.Rows
	if len(report.SampleRows) > sampleRowLimit {
		report.SampleRows = report.SampleRows[:sampleRowLimit]
	}
	return report
}

// stripTrailingSemicolons normalizes statement terminators before a query
// is wrapped or capped.
func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
