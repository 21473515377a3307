package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sqlgate/sqlgate/internal/analyzer"
	"github.com/sqlgate/sqlgate/internal/auth"
)

type validateRequest struct {
	SQL             string `json:"sql"`
	NaturalLanguage string `json:"natural_language"`
	SchemaName      string `json:"schema_name"`
	SchemaContext   string `json:"schema_context"`
}

func handleValidate(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Analyzer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ANALYZER_NOT_CONFIGURED", "analyzer dependency is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request validateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid validate request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	verdict := deps.Analyzer.Validate(analyzer.Submission{
		RawSQL:          request.SQL,
		NaturalLanguage: request.NaturalLanguage,
		SchemaContext:   request.SchemaContext,
	})
	writeJSON(w, http.StatusOK, verdict)
}

func requireRole(r *http.Request, role string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	if identity.HasRole(role) {
		return nil
	}
	return fmt.Errorf("missing required role %q", role)
}
