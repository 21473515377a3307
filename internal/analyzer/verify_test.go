package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHandle struct {
	result   ExecutionResult
	err      error
	requests []string
	caps     []int
}

func (f *fakeHandle) ExecuteSelect(_ context.Context, sql string, rowCap int) (ExecutionResult, error) {
	f.requests = append(f.requests, sql)
	f.caps = append(f.caps, rowCap)
	if f.err != nil {
		return ExecutionResult{}, f.err
	}
	return f.result, nil
}

func TestEnsureRowLimitInjectsTop(t *testing.T) {
	got := EnsureRowLimit("SELECT id FROM orders", 100)
	if got != "SELECT TOP 100 id FROM orders" {
		t.Fatalf("EnsureRowLimit() = %q", got)
	}
}

func TestEnsureRowLimitKeepsExistingCap(t *testing.T) {
	cases := []string{
		"SELECT TOP 10 id FROM orders",
		"SELECT TOP(10) id FROM orders",
		"SELECT id FROM orders LIMIT 50",
	}
	for _, sql := range cases {
		if got := EnsureRowLimit(sql, 100); got != sql {
			t.Fatalf("EnsureRowLimit(%q) = %q, want unchanged", sql, got)
		}
	}
}

func TestVerifyExecutionSuccess(t *testing.T) {
	handle := &fakeHandle{result: ExecutionResult{
		Columns: []string{"id"},
		Rows:    [][]any{{int64(1)}, {int64(2)}},
		Elapsed: 30 * time.Millisecond,
	}}

	report := verifyExecution(context.Background(), Submission{RawSQL: "SELECT id FROM orders"}, handle)
	if !report.Attempted || !report.Success {
		t.Fatalf("report = %+v", report)
	}
	if report.RowCount != 2 {
		t.Fatalf("RowCount = %d", report.RowCount)
	}
	if len(handle.requests) != 1 || handle.requests[0] != "SELECT TOP 1000 id FROM orders" {
		t.Fatalf("requests = %v", handle.requests)
	}
	if handle.caps[0] != DefaultRowLimit {
		t.Fatalf("rowCap = %d", handle.caps[0])
	}
}

func TestVerifyExecutionRejectsMutatingStatement(t *testing.T) {
	handle := &fakeHandle{}
	report := verifyExecution(context.Background(), Submission{RawSQL: "DELETE FROM orders"}, handle)
	if report.Success {
		t.Fatal("mutating statement must not succeed")
	}
	if len(handle.requests) != 0 {
		t.Fatalf("handle was called with %v", handle.requests)
	}
	if report.Error == "" {
		t.Fatal("expected rejection error")
	}
}

func TestVerifyExecutionFailureIsData(t *testing.T) {
	handle := &fakeHandle{err: errors.New("Invalid column name 'foo'")}
	report := verifyExecution(context.Background(), Submission{RawSQL: "SELECT foo FROM orders"}, handle)
	if !report.Attempted || report.Success {
		t.Fatalf("report = %+v", report)
	}
	if report.Error != "Invalid column name 'foo'" {
		t.Fatalf("Error = %q", report.Error)
	}
}

func TestVerifyExecutionTruncatesSampleRows(t *testing.T) {
	rows := make([][]any, 9)
	for i := range rows {
		rows[i] = []any{i}
	}
	handle := &fakeHandle{result: ExecutionResult{Columns: []string{"n"}, Rows: rows}}

	report := verifyExecution(context.Background(), Submission{RawSQL: "SELECT n FROM t"}, handle)
	if report.RowCount != 9 {
		t.Fatalf("RowCount = %d", report.RowCount)
	}
	if len(report.SampleRows) != sampleRowLimit {
		t.Fatalf("SampleRows = %d", len(report.SampleRows))
	}
}
