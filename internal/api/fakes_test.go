package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sqlgate/sqlgate/internal/analyzer"
	"github.com/sqlgate/sqlgate/internal/history"
	"github.com/sqlgate/sqlgate/internal/nl2sql"
	"github.com/sqlgate/sqlgate/internal/schema"
)

var errTestStorage = errors.New("storage unavailable")

type fakeTranslator struct {
	result  nl2sql.Result
	err     error
	lastReq nl2sql.Request
}

func (f *fakeTranslator) Translate(_ context.Context, req nl2sql.Request) (nl2sql.Result, error) {
	f.lastReq = req
	if f.err != nil {
		return nl2sql.Result{}, f.err
	}
	return f.result, nil
}

type fakeSchemaProvider struct {
	docs map[string]string
}

func (f *fakeSchemaProvider) List() ([]string, error) {
	names := make([]string, 0, len(f.docs))
	for name := range f.docs {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSchemaProvider) Get(name string) (schema.Document, error) {
	content, ok := f.docs[name]
	if !ok {
		return schema.Document{}, schema.ErrNotFound
	}
	return schema.Document{Name: name, Content: content}, nil
}

type fakeHistoryStore struct {
	mu      sync.Mutex
	records []history.Record
	err     error
}

func (f *fakeHistoryStore) HealthCheck(_ context.Context) error { return nil }

func (f *fakeHistoryStore) AppendQuery(_ context.Context, in history.AppendInput) (history.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return history.Record{}, f.err
	}
	record := history.Record{
		ID:              int64(len(f.records) + 1),
		NaturalLanguage: in.NaturalLanguage,
		SQL:             in.SQL,
		OptimizedSQL:    in.OptimizedSQL,
		IsValid:         in.IsValid,
		Scores:          in.Scores,
		CreatedAt:       time.Now(),
	}
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeHistoryStore) ListRecent(_ context.Context, limit int) ([]history.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]history.Record, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func (f *fakeHistoryStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeExecutor struct {
	result analyzer.ExecutionResult
	err    error
	calls  int
}

func (f *fakeExecutor) ExecuteSelect(_ context.Context, _ string, _ int) (analyzer.ExecutionResult, error) {
	f.calls++
	if f.err != nil {
		return analyzer.ExecutionResult{}, f.err
	}
	return f.result, nil
}
