// Package analyzer is the quality gate for LLM-generated SQL. A submission
// passes through a lexical read-only gate, then four independent shallow
// analysis stages (syntax, security, performance, semantic alignment), an
// optional live execution check, and a score aggregator. None of it is a
// SQL parser: every stage is a bounded-time heuristic over the raw text,
// and a stage failure degrades its score instead of failing the pipeline.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// conservativeMidpoint is assigned to a stage whose analysis itself failed.
const conservativeMidpoint = 50

type Analyzer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Validate runs the validation-only pipeline: read-only gate, structural
// checks, security and performance findings, dialect notices, and the
// normalized query text. Mutating or unrecognized statements short-circuit
// with a single fatal error; the remaining stages are irrelevant once the
// statement is rejected.
func (a *Analyzer) Validate(sub Submission) Verdict {
	verdict := Verdict{
		Errors:                 []string{},
		SecurityIssues:         []string{},
		PerformanceSuggestions: []string{},
		Warnings:               []string{},
		OptimizedSQL:           sub.RawSQL,
	}

	if isBlank(sub.RawSQL) {
		verdict.Errors = append(verdict.Errors, "SQL query is empty")
		return verdict
	}
	if !Classify(sub.RawSQL).ReadOnly {
		verdict.Errors = append(verdict.Errors,
			"Only SELECT queries are allowed. UPDATE, INSERT, DELETE, DROP, and other modification statements are prohibited for security.")
		return verdict
	}

	verdict.Errors = append(verdict.Errors, CheckSyntax(sub.RawSQL)...)
	_, findings := ScanSecurity(sub.RawSQL)
	verdict.SecurityIssues = append(verdict.SecurityIssues, findings...)
	_, suggestions := AnalyzePerformance(sub.RawSQL)
	verdict.PerformanceSuggestions = append(verdict.PerformanceSuggestions, suggestions...)
	verdict.Warnings = append(verdict.Warnings, CheckDialect(sub.RawSQL)...)

	if len(verdict.Errors) == 0 {
		verdict.OptimizedSQL = OptimizeSQL(sub.RawSQL)
		verdict.IsValid = true
	}
	return verdict
}

type stageResult struct {
	score  float64
	issues []string
}

// ValidateAndScore runs the full pipeline and produces the scored verdict.
// The four pure stages run concurrently; they share no state and complete
// in effectively-instant time. Only the optional execution stage blocks,
// bounded by the handle's own timeouts. The caller always gets a complete
// feedback object; no stage error surfaces as a fault.
func (a *Analyzer) ValidateAndScore(ctx context.Context, sub Submission, handle ExecutionHandle) QualityFeedback {
	feedback := QualityFeedback{
		Verdict: a.Validate(sub),
		Issues: Issues{
			Syntax:      []string{},
			Semantic:    []string{},
			Performance: []string{},
			Security:    []string{},
			Correctness: []string{},
		},
		Recommendations: []string{},
	}

	// The read-only gate is consulted before any scoring stage: a rejected
	// statement gets its fatal error and nothing else, because analyzing a
	// statement that will never execute is noise.
	if isBlank(sub.RawSQL) || !Classify(sub.RawSQL).ReadOnly {
		feedback.Issues.Syntax = append(feedback.Issues.Syntax, feedback.Verdict.Errors...)
		feedback.Scores.Overall = CombineScores(feedback.Scores)
		feedback.Recommendations = Recommend(feedback.Scores, feedback.Execution)
		return feedback
	}

	var syntax, security, performance, semantic stageResult
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		syntax = a.runStage("syntax", func() stageResult {
			score, issues := scoreSyntax(sub.RawSQL)
			return stageResult{score: score, issues: issues}
		})
	}()
	go func() {
		defer wg.Done()
		security = a.runStage("security", func() stageResult {
			score, issues := ScanSecurity(sub.RawSQL)
			return stageResult{score: score, issues: issues}
		})
	}()
	go func() {
		defer wg.Done()
		performance = a.runStage("performance", func() stageResult {
			score, issues := AnalyzePerformance(sub.RawSQL)
			return stageResult{score: score, issues: issues}
		})
	}()
	go func() {
		defer wg.Done()
		semantic = a.runStage("semantic", func() stageResult {
			score, issues := ScoreAlignment(sub.RawSQL, sub.NaturalLanguage, sub.SchemaContext)
			return stageResult{score: score, issues: issues}
		})
	}()
	wg.Wait()

	feedback.Scores.Syntax = syntax.score
	feedback.Scores.Security = security.score
	feedback.Scores.Performance = performance.score
	feedback.Scores.Semantic = semantic.score
	feedback.Issues.Syntax = append(feedback.Issues.Syntax, syntax.issues...)
	feedback.Issues.Security = append(feedback.Issues.Security, security.issues...)
	feedback.Issues.Performance = append(feedback.Issues.Performance, performance.issues...)
	feedback.Issues.Semantic = append(feedback.Issues.Semantic, semantic.issues...)

	if handle != nil {
		feedback.Execution = verifyExecution(ctx, sub, handle)
		if feedback.Execution.Success {
			feedback.Scores.Syntax = clampScore(feedback.Scores.Syntax + 20)
		} else {
			feedback.Scores.Syntax = clampScore(feedback.Scores.Syntax - 30)
			errText := feedback.Execution.Error
			if errText == "" {
				errText = "Unknown error"
			}
			feedback.Issues.Correctness = append(feedback.Issues.Correctness,
				fmt.Sprintf("Query execution failed: %s", errText))
		}
	}

	feedback.Scores.Overall = CombineScores(feedback.Scores)
	feedback.Recommendations = Recommend(feedback.Scores, feedback.Execution)
	return feedback
}

// runStage executes one analysis stage, converting a panic into a single
// finding with the conservative midpoint score so one broken stage never
// suppresses the others' results.
func (a *Analyzer) runStage(name string, fn func() stageResult) (result stageResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if a.logger != nil {
				a.logger.Error("analysis stage panicked",
					slog.String("stage", name),
					slog.Any("panic", recovered),
				)
			}
			result = stageResult{
				score:  conservativeMidpoint,
				issues: []string{fmt.Sprintf("%s analysis error: %v", name, recovered)},
			}
		}
	}()
	return fn()
}

func isBlank(text string) bool {
	for i := 0; i < len(text); i++ {
		if !isSpaceByte(text[i]) {
			return false
		}
	}
	return true
}
