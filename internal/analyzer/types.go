package analyzer

import (
	"context"
	"time"
)

// StatementKind is the lexical classification of a SQL statement.
type StatementKind string

const (
	StatementSelect   StatementKind = "SELECT"
	StatementWith     StatementKind = "WITH"
	StatementMutating StatementKind = "MUTATING"
	StatementUnknown  StatementKind = "UNKNOWN"
)

// DefaultRowLimit bounds live execution when the caller does not set one.
const DefaultRowLimit = 1000

// Submission is a single candidate query plus optional context. It is
// treated as immutable once handed to the analyzer.
type Submission struct {
	RawSQL          string
	NaturalLanguage string
	SchemaContext   string
	RowLimit        int
}

// Classification is the lexical classifier output.
type Classification struct {
	Kind     StatementKind
	ReadOnly bool
}

// Verdict is the validation result for a submission. IsValid is true only
// when Errors is empty and the statement is lexically read-only.
type Verdict struct {
	IsValid                bool     `json:"is_valid"`
	Errors                 []string `json:"errors"`
	SecurityIssues         []string `json:"security_issues"`
	PerformanceSuggestions []string `json:"performance_suggestions"`
	Warnings               []string `json:"warnings"`
	OptimizedSQL           string   `json:"optimized_sql"`
}

// Scores holds the per-stage quality scores, each in [0,100].
type Scores struct {
	Syntax      float64 `json:"syntax"`
	Semantic    float64 `json:"semantic"`
	Performance float64 `json:"performance"`
	Security    float64 `json:"security"`
	Overall     float64 `json:"overall"`
}

// Issues holds the per-stage findings. Findings never abort the pipeline.
type Issues struct {
	Syntax      []string `json:"syntax"`
	Semantic    []string `json:"semantic"`
	Performance []string `json:"performance"`
	Security    []string `json:"security"`
	Correctness []string `json:"correctness"`
}

// ExecutionReport describes the optional live execution attempt.
type ExecutionReport struct {
	Attempted  bool          `json:"attempted"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
	Elapsed    time.Duration `json:"-"`
	ElapsedSec float64       `json:"execution_time_seconds"`
	RowCount   int           `json:"row_count"`
	Columns    []string      `json:"columns,omitempty"`
	SampleRows [][]any       `json:"sample_rows,omitempty"`
}

// QualityFeedback is the full scored verdict returned to the caller.
type QualityFeedback struct {
	Verdict         Verdict         `json:"verdict"`
	Scores          Scores          `json:"scores"`
	Issues          Issues          `json:"issues"`
	Execution       ExecutionReport `json:"execution"`
	Recommendations []string        `json:"recommendations"`
}

// ExecutionResult is what an execution handle returns for a bounded SELECT.
type ExecutionResult struct {
	Columns []string
	Rows    [][]any
	Elapsed time.Duration
}

// ExecutionHandle runs a read-only, row-capped query against a live
// database. The analyzer never builds connections itself; a handle is
// supplied by the caller when live verification is wanted.
type ExecutionHandle interface {
	ExecuteSelect(ctx context.Context, sql string, rowCap int) (ExecutionResult, error)
}
