// Package nl2sql turns natural-language questions into candidate SQL via an
// OpenAI-compatible chat completion endpoint. Generated SQL is a draft; the
// caller is expected to run it through the analyzer before trusting it.
package nl2sql

import "context"

type Request struct {
	NaturalLanguage string `json:"natural_language"`
	// SchemaContext is free-form schema documentation (table and column
	// descriptions) handed to the model verbatim.
	SchemaContext string `json:"schema_context"`
}

type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
