package api

import (
	"errors"
	"net/http"

	"github.com/sqlgate/sqlgate/internal/schema"
)

func handleListSchemas(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.SchemaProvider == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema provider is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	names, err := deps.SchemaProvider.List()
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to list schema contexts", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

func handleGetSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.SchemaProvider == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema provider is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	doc, err := deps.SchemaProvider.Get(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			writeError(r.Context(), w, http.StatusNotFound, "SCHEMA_NOT_FOUND", "named schema context was not found", false, nil)
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_FETCH_FAILED", "failed to load schema context", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
