package sqlgatectl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("sqlgatectl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "sqlgate API base URL")
	apiKey := fs.String("api-key", defaults.APIKey, "API key for authenticated requests")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 10*time.Second), "HTTP timeout (e.g. 10s)")
	sqlText := fs.String("sql", "", "SQL statement for validate/score commands")
	question := fs.String("question", "", "natural language question for score/convert commands")
	schemaName := fs.String("schema", "", "named schema context for score/convert commands")
	verify := fs.Bool("verify", false, "execute the query against the verification target during scoring")
	limit := fs.Int("limit", 0, "maximum history records to return")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}

	command := strings.TrimSpace(fs.Arg(0))
	method := ""
	path := ""
	var body any
	switch command {
	case "health":
		method, path = http.MethodGet, "/v1/health"
	case "ready":
		method, path = http.MethodGet, "/v1/ready"
	case "validate":
		if strings.TrimSpace(*sqlText) == "" {
			_, _ = fmt.Fprintln(stderr, "validate requires -sql")
			return 2
		}
		method, path = http.MethodPost, "/v1/validate"
		body = map[string]any{"sql": *sqlText}
	case "score":
		if strings.TrimSpace(*sqlText) == "" {
			_, _ = fmt.Fprintln(stderr, "score requires -sql")
			return 2
		}
		method, path = http.MethodPost, "/v1/score"
		payload := map[string]any{"sql": *sqlText}
		if strings.TrimSpace(*question) != "" {
			payload["natural_language"] = *question
		}
		if strings.TrimSpace(*schemaName) != "" {
			payload["schema_name"] = *schemaName
		}
		if *verify {
			payload["verify"] = true
		}
		body = payload
	case "convert":
		if strings.TrimSpace(*question) == "" {
			_, _ = fmt.Fprintln(stderr, "convert requires -question")
			return 2
		}
		method, path = http.MethodPost, "/v1/convert"
		payload := map[string]any{"natural_language": *question}
		if strings.TrimSpace(*schemaName) != "" {
			payload["schema_name"] = *schemaName
		}
		if *verify {
			payload["verify"] = true
		}
		body = payload
	case "schemas":
		method, path = http.MethodGet, "/v1/schemas"
		if fs.NArg() > 1 {
			path = "/v1/schemas/" + url.PathEscape(strings.TrimSpace(fs.Arg(1)))
		}
	case "history":
		method, path = http.MethodGet, "/v1/history"
		if *limit > 0 {
			path = fmt.Sprintf("/v1/history?limit=%d", *limit)
		}
	case "feedback-summary":
		method, path = http.MethodGet, "/v1/feedback/summary"
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		writeUsage(stderr)
		return 2
	}

	endpoint := strings.TrimRight(*baseURL, "/") + path
	code, responseBody, err := doRequest(ctx, client, method, endpoint, *apiKey, body)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}

	if code >= 400 {
		_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(responseBody)))
		return 1
	}

	if pretty, ok := prettyJSON(responseBody); ok {
		_, _ = fmt.Fprintln(stdout, pretty)
		return 0
	}
	if len(responseBody) > 0 {
		_, _ = fmt.Fprintln(stdout, string(responseBody))
	}
	return 0
}

func doRequest(ctx context.Context, client *http.Client, method, url, apiKey string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(apiKey) != "" {
		req.Header.Set("X-API-Key", strings.TrimSpace(apiKey))
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, responseBody, nil
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: sqlgatectl [flags] <command>")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "commands:")
	_, _ = fmt.Fprintln(w, "  health            GET /v1/health")
	_, _ = fmt.Fprintln(w, "  ready             GET /v1/ready")
	_, _ = fmt.Fprintln(w, "  validate          POST /v1/validate (requires -sql)")
	_, _ = fmt.Fprintln(w, "  score             POST /v1/score (requires -sql; optional -question, -schema, -verify)")
	_, _ = fmt.Fprintln(w, "  convert           POST /v1/convert (requires -question; optional -schema, -verify)")
	_, _ = fmt.Fprintln(w, "  schemas [name]    GET /v1/schemas or /v1/schemas/{name}")
	_, _ = fmt.Fprintln(w, "  history           GET /v1/history (optional -limit)")
	_, _ = fmt.Fprintln(w, "  feedback-summary  GET /v1/feedback/summary")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
