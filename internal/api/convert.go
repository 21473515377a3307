package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sqlgate/sqlgate/internal/analyzer"
	"github.com/sqlgate/sqlgate/internal/nl2sql"
	"github.com/sqlgate/sqlgate/internal/observability"
)

type convertRequest struct {
	NaturalLanguage string `json:"natural_language"`
	SchemaName      string `json:"schema_name"`
	SchemaContext   string `json:"schema_context"`
	RowLimit        int    `json:"row_limit"`
	Verify          bool   `json:"verify"`
}

type convertResponse struct {
	SQL      string                   `json:"sql"`
	Provider string                   `json:"provider"`
	Model    string                   `json:"model"`
	Feedback analyzer.QualityFeedback `json:"feedback"`
}

// handleConvert translates a natural-language question into SQL and runs
// the generated query through the full quality gate before returning it.
func handleConvert(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", "natural language translation is not configured", false, nil)
		return
	}
	if deps.Analyzer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ANALYZER_NOT_CONFIGURED", "analyzer dependency is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request convertRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid convert request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.NaturalLanguage) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "PROMPT_REQUIRED", "natural_language is required", false, nil)
		return
	}

	schemaContext, err := resolveSchemaContext(deps, request.SchemaName, request.SchemaContext)
	if err != nil {
		handleSchemaResolutionError(r, w, err)
		return
	}

	result, err := deps.Translator.Translate(r.Context(), nl2sql.Request{
		NaturalLanguage: request.NaturalLanguage,
		SchemaContext:   schemaContext,
	})
	observability.ObserveTranslation(err)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "failed to translate question", true, map[string]any{"details": err.Error()})
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
		RawSQL:          result.SQL,
		NaturalLanguage: request.NaturalLanguage,
		SchemaContext:   schemaContext,
		RowLimit:        rowLimit(deps, request.RowLimit),
	}
	feedback := deps.Analyzer.ValidateAndScore(r.Context(), sub, handle)
	recordAnalysis(r.Context(), deps, sub, feedback)

	writeJSON(w, http.StatusOK, convertResponse{
		SQL:      result.SQL,
		Provider: result.Provider,
		Model:    result.Model,
		Feedback: feedback,
	})
}
