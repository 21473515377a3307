package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sqlgate/sqlgate/internal/nl2sql"
)

func TestConvertTranslatesAndScores(t *testing.T) {
	translator := &fakeTranslator{result: nl2sql.Result{
		SQL:      "SELECT TOP 200 id, name FROM dbo.users WHERE active = 1",
		Provider: "openai-compatible",
		Model:    "gpt-test",
	}}
	provider := &fakeSchemaProvider{docs: map[string]string{
		"hr": "dbo.users(id, name, active)",
	}}
	h := NewHandler(testConfig(t, nil), Dependencies{
		Analyzer:       testAnalyzer(),
		Translator:     translator,
		SchemaProvider: provider,
	})

	rr := postJSON(t, h, "/v1/convert", `{"natural_language": "show active users", "schema_name": "hr"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}

	var response convertResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.SQL == "" || response.Model != "gpt-test" {
		t.Fatalf("response = %+v", response)
	}
	if !response.Feedback.Verdict.IsValid {
		t.Fatalf("feedback invalid: %v", response.Feedback.Verdict.Errors)
	}
	if translator.lastReq.SchemaContext != "dbo.users(id, name, active)" {
		t.Fatalf("translator schema context = %q", translator.lastReq.SchemaContext)
	}
}

func TestConvertScoresMutatingTranslation(t *testing.T) {
	// A model that produces a mutating statement still gets a scored
	// verdict; the gate rejects it instead of executing it.
	translator := &fakeTranslator{result: nl2sql.Result{SQL: "DROP TABLE dbo.users"}}
	h := NewHandler(testConfig(t, nil), Dependencies{Analyzer: testAnalyzer(), Translator: translator})

	rr := postJSON(t, h, "/v1/convert", `{"natural_language": "drop the users table"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var response convertResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Feedback.Verdict.IsValid {
		t.Fatal("mutating translation must not validate")
	}
	if response.Feedback.Scores.Overall != 0 {
		t.Fatalf("Overall = %v, want 0 for rejected statement", response.Feedback.Scores.Overall)
	}
}

func TestConvertTranslationFailure(t *testing.T) {
	translator := &fakeTranslator{err: errors.New("model overloaded")}
	h := NewHandler(testConfig(t, nil), Dependencies{Analyzer: testAnalyzer(), Translator: translator})

	rr := postJSON(t, h, "/v1/convert", `{"natural_language": "show users"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestConvertRequiresPrompt(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Analyzer:   testAnalyzer(),
		Translator: &fakeTranslator{},
	})

	rr := postJSON(t, h, "/v1/convert", `{"natural_language": " "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestConvertWithoutTranslatorReturns501(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{Analyzer: testAnalyzer()})

	rr := postJSON(t, h, "/v1/convert", `{"natural_language": "show users"}`)
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}
