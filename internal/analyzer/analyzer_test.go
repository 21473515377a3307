package analyzer

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidateCleanSelect(t *testing.T) {
	a := New(nil)
	verdict := a.Validate(Submission{RawSQL: "SELECT id, name FROM dbo.users WHERE active = 1"})
	if !verdict.IsValid {
		t.Fatalf("verdict = %+v, want valid", verdict)
	}
	if len(verdict.Errors) != 0 {
		t.Fatalf("Errors = %v", verdict.Errors)
	}
	if verdict.OptimizedSQL == "" {
		t.Fatal("OptimizedSQL is empty")
	}
}

func TestValidateRejectsMutatingStatements(t *testing.T) {
	a := New(nil)
	for _, sql := range []string{"DROP TABLE users", "DELETE FROM t", "UPDATE t SET a=1", "random words"} {
		verdict := a.Validate(Submission{RawSQL: sql})
		if verdict.IsValid {
			t.Fatalf("%q accepted", sql)
		}
		if len(verdict.Errors) != 1 {
			t.Fatalf("%q: Errors = %v, want exactly one", sql, verdict.Errors)
		}
		// rejected statements skip all downstream stages
		if len(verdict.SecurityIssues) != 0 || len(verdict.PerformanceSuggestions) != 0 {
			t.Fatalf("%q: downstream analysis ran: %+v", sql, verdict)
		}
	}
}

func TestValidateEmptyInput(t *testing.T) {
	a := New(nil)
	verdict := a.Validate(Submission{RawSQL: "  \t\n"})
	if verdict.IsValid {
		t.Fatal("empty input accepted")
	}
	if !containsString(verdict.Errors, "SQL query is empty") {
		t.Fatalf("Errors = %v", verdict.Errors)
	}
}

func TestValidateKeepsRawSQLWhenInvalid(t *testing.T) {
	a := New(nil)
	raw := "SELECT (a FROM t"
	verdict := a.Validate(Submission{RawSQL: raw})
	if verdict.IsValid {
		t.Fatal("unbalanced query accepted")
	}
	if verdict.OptimizedSQL != raw {
		t.Fatalf("OptimizedSQL = %q, want raw text", verdict.OptimizedSQL)
	}
}

func TestValidateAndScoreOverallWeighting(t *testing.T) {
	a := New(nil)
	feedback := a.ValidateAndScore(context.Background(), Submission{
		RawSQL:          "SELECT id FROM dbo.orders WHERE placed_at > '2024-01-01'",
		NaturalLanguage: "retrieve orders placed this year",
	}, nil)

	want := 0.3*feedback.Scores.Syntax + 0.3*feedback.Scores.Semantic +
		0.2*feedback.Scores.Performance + 0.2*feedback.Scores.Security
	if math.Abs(feedback.Scores.Overall-want) > 1e-9 {
		t.Fatalf("Overall = %v, want %v", feedback.Scores.Overall, want)
	}
	if feedback.Execution.Attempted {
		t.Fatal("Execution.Attempted without a handle")
	}
	if len(feedback.Recommendations) == 0 {
		t.Fatal("Recommendations empty")
	}
}

func TestValidateAndScoreMutatingShortCircuits(t *testing.T) {
	a := New(nil)
	handle := &fakeHandle{}
	feedback := a.ValidateAndScore(context.Background(), Submission{RawSQL: "DROP TABLE users"}, handle)

	if feedback.Verdict.IsValid {
		t.Fatal("DROP accepted")
	}
	if len(feedback.Verdict.Errors) != 1 {
		t.Fatalf("Errors = %v", feedback.Verdict.Errors)
	}
	if len(feedback.Issues.Security) != 0 || len(feedback.Issues.Performance) != 0 {
		t.Fatalf("stages ran on rejected statement: %+v", feedback.Issues)
	}
	if feedback.Execution.Attempted {
		t.Fatal("execution attempted on rejected statement")
	}
	if len(handle.requests) != 0 {
		t.Fatalf("handle called: %v", handle.requests)
	}
}

func TestValidateAndScoreExecutionSuccessBoostsSyntax(t *testing.T) {
	a := New(nil)
	sub := Submission{RawSQL: "SELECT id FROM dbo.orders WHERE placed_at > '2024-01-01'"}

	baseline := a.ValidateAndScore(context.Background(), sub, nil)
	handle := &fakeHandle{result: ExecutionResult{Columns: []string{"id"}, Rows: [][]any{{int64(1)}}, Elapsed: 20 * time.Millisecond}}
	boosted := a.ValidateAndScore(context.Background(), sub, handle)

	if !boosted.Execution.Attempted || !boosted.Execution.Success {
		t.Fatalf("Execution = %+v", boosted.Execution)
	}
	wantSyntax := clampScore(baseline.Scores.Syntax + 20)
	if boosted.Scores.Syntax != wantSyntax {
		t.Fatalf("Syntax = %v, want %v", boosted.Scores.Syntax, wantSyntax)
	}
	if !containsString(boosted.Recommendations, "Good: Query executes efficiently.") {
		t.Fatalf("Recommendations = %v", boosted.Recommendations)
	}
}

func TestValidateAndScoreExecutionFailureDegradesSyntax(t *testing.T) {
	a := New(nil)
	sub := Submission{RawSQL: "SELECT foo FROM dbo.orders WHERE placed_at > '2024-01-01'"}

	baseline := a.ValidateAndScore(context.Background(), sub, nil)
	handle := &fakeHandle{err: errors.New("Invalid column name 'foo'")}
	degraded := a.ValidateAndScore(context.Background(), sub, handle)

	if degraded.Execution.Success {
		t.Fatal("Execution.Success on failed run")
	}
	if degraded.Scores.Syntax >= baseline.Scores.Syntax {
		t.Fatalf("Syntax = %v, want below %v", degraded.Scores.Syntax, baseline.Scores.Syntax)
	}
	if !containsSubstring(degraded.Issues.Correctness, "Invalid column name 'foo'") {
		t.Fatalf("Correctness = %v", degraded.Issues.Correctness)
	}
}

func TestRunStageConvertsPanicToFinding(t *testing.T) {
	a := New(nil)
	result := a.runStage("semantic", func() stageResult {
		panic("boom")
	})
	if result.score != conservativeMidpoint {
		t.Fatalf("score = %v, want %d", result.score, conservativeMidpoint)
	}
	if !containsSubstring(result.issues, "semantic analysis error") {
		t.Fatalf("issues = %v", result.issues)
	}
}

func TestRecommendTiers(t *testing.T) {
	cases := []struct {
		overall  float64
		headline string
	}{
		{95, "Excellent query! This SQL appears to be well-structured and efficient."},
		{75, "Good query with room for minor improvements."},
		{55, "Query needs attention in several areas for optimal performance."},
		{20, "Query requires significant improvements before production use."},
	}
	for _, tc := range cases {
		recs := Recommend(Scores{Overall: tc.overall, Syntax: 100, Semantic: 100, Performance: 100, Security: 100}, ExecutionReport{})
		if len(recs) == 0 || recs[0] != tc.headline {
			t.Fatalf("overall %v: recs = %v", tc.overall, recs)
		}
	}
}

func TestRecommendTargetsLaggingSubScores(t *testing.T) {
	recs := Recommend(Scores{Overall: 60, Syntax: 65, Semantic: 90, Performance: 60, Security: 75}, ExecutionReport{})
	if !containsString(recs, "Review SQL syntax and fix any structural issues.") {
		t.Fatalf("recs = %v, missing syntax item", recs)
	}
	if !containsString(recs, "Consider performance optimizations like indexing and query restructuring.") {
		t.Fatalf("recs = %v, missing performance item", recs)
	}
	// security threshold is 80, stricter than the others
	if !containsString(recs, "Address security concerns before using this query in production.") {
		t.Fatalf("recs = %v, missing security item", recs)
	}
	if containsString(recs, "Ensure the query accurately reflects the natural language intent.") {
		t.Fatalf("recs = %v, semantic item not expected", recs)
	}
}

func TestRecommendSlowExecutionNote(t *testing.T) {
	recs := Recommend(Scores{Overall: 95, Syntax: 100, Semantic: 100, Performance: 100, Security: 100},
		ExecutionReport{Attempted: true, Success: true, ElapsedSec: 7.2})
	if !containsString(recs, "Query execution time is high - consider optimization.") {
		t.Fatalf("recs = %v", recs)
	}
}
