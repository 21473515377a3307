package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sqlgate/sqlgate/internal/analyzer"
	"github.com/sqlgate/sqlgate/internal/history"
	"github.com/sqlgate/sqlgate/internal/observability"
	"github.com/sqlgate/sqlgate/internal/schema"
)

type scoreRequest struct {
	SQL             string `json:"sql"`
	NaturalLanguage string `json:"natural_language"`
	SchemaName      string `json:"schema_name"`
	SchemaContext   string `json:"schema_context"`
	RowLimit        int    `json:"row_limit"`
	Verify          bool   `json:"verify"`
}

func handleScore(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Analyzer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ANALYZER_NOT_CONFIGURED", "analyzer dependency is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request scoreRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid score request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	schemaContext, err := resolveSchemaContext(deps, request.SchemaName, request.SchemaContext)
	if err != nil {
		handleSchemaResolutionError(r, w, err)
		return
	}

	var handle analyzer.ExecutionHandle
	if request.Verify {
		if deps.Executor == nil {
			writeError(r.Context(), w, http.StatusNotImplemented, "VERIFY_NOT_CONFIGURED", "live verification target is not configured", false, nil)
			return
		}
		handle = deps.Executor
	}

	sub := analyzer.Submission{
		RawSQL:          request.SQL,
		NaturalLanguage: request.NaturalLanguage,
		SchemaContext:   schemaContext,
		RowLimit:        rowLimit(deps, request.RowLimit),
	}
	feedback := deps.Analyzer.ValidateAndScore(r.Context(), sub, handle)
	recordAnalysis(r.Context(), deps, sub, feedback)
	writeJSON(w, http.StatusOK, feedback)
}

func rowLimit(deps Dependencies, requested int) int {
	if requested > 0 {
		return requested
	}
	if deps.DefaultRowLimit > 0 {
		return deps.DefaultRowLimit
	}
	return analyzer.DefaultRowLimit
}

// resolveSchemaContext prefers inline schema context over a named document.
func resolveSchemaContext(deps Dependencies, name, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	if deps.SchemaProvider == nil {
		return "", errSchemaProviderMissing
	}
	doc, err := deps.SchemaProvider.Get(name)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

var errSchemaProviderMissing = errors.New("schema provider is not configured")

func handleSchemaResolutionError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schema.ErrNotFound):
		writeError(r.Context(), w, http.StatusNotFound, "SCHEMA_NOT_FOUND", "named schema context was not found", false, nil)
	case errors.Is(err, errSchemaProviderMissing):
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema provider is not configured", false, nil)
	default:
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
	}
}

// recordAnalysis updates metrics, the feedback window, and the optional
// history store. History persistence is best effort: a storage failure is
// logged and never turns a scored analysis into an HTTP error.
func recordAnalysis(ctx context.Context, deps Dependencies, sub analyzer.Submission, feedback analyzer.QualityFeedback) {
	if !analyzer.Classify(sub.RawSQL).ReadOnly {
		observability.IncrementRejection()
	}
	observability.ObserveAnalysis(
		feedback.Verdict.IsValid,
		feedback.Scores.Syntax,
		feedback.Scores.Semantic,
		feedback.Scores.Performance,
		feedback.Scores.Security,
	)
	if feedback.Execution.Attempted {
		observability.ObserveVerifierExecution(feedback.Execution.Success, feedback.Execution.Elapsed)
	}

	if deps.FeedbackLog != nil {
		deps.FeedbackLog.Append(history.FeedbackEntry{
			Scores: feedback.Scores,
			Issues: collectIssues(feedback.Issues),
		})
	}

	if deps.HistoryStore != nil {
		_, err := deps.HistoryStore.AppendQuery(ctx, history.AppendInput{
			NaturalLanguage: sub.NaturalLanguage,
			SQL:             sub.RawSQL,
			OptimizedSQL:    feedback.Verdict.OptimizedSQL,
			IsValid:         feedback.Verdict.IsValid,
			Scores:          feedback.Scores,
		})
		if err != nil && deps.Logger != nil {
			deps.Logger.WarnContext(ctx, "history append failed",
				slog.String("trace_id", observability.TraceIDFromContext(ctx)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func collectIssues(issues analyzer.Issues) []string {
	merged := make([]string, 0,
		len(issues.Syntax)+len(issues.Semantic)+len(issues.Performance)+len(issues.Security)+len(issues.Correctness))
	merged = append(merged, issues.Syntax...)
	merged = append(merged, issues.Semantic...)
	merged = append(merged, issues.Performance...)
	merged = append(merged, issues.Security...)
	merged = append(merged, issues.Correctness...)
	return merged
}
