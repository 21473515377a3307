package history

import (
	"sort"
	"sync"
	"time"

	"github.com/sqlgate/sqlgate/internal/analyzer"
)

const (
	defaultFeedbackCapacity = 500
	defaultSummaryWindow    = 10
)

// FeedbackEntry is one scored analysis retained for trend aggregation.
type FeedbackEntry struct {
	Scores   analyzer.Scores
	Issues   []string
	Recorded time.Time
}

// Summary aggregates the retained feedback window.
type Summary struct {
	Analyses      int             `json:"analyses"`
	AverageScores analyzer.Scores `json:"average_scores"`
	CommonIssues  []IssueCount    `json:"common_issues"`
}

type IssueCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// FeedbackLog is a bounded in-memory ring of recent analyses. When full,
// the oldest entry is overwritten.
type FeedbackLog struct {
	mu      sync.Mutex
	entries []FeedbackEntry
	next    int
	filled  bool
}

func NewFeedbackLog(capacity int) *FeedbackLog {
	if capacity <= 0 {
		capacity = defaultFeedbackCapacity
	}
	return &FeedbackLog{entries: make([]FeedbackEntry, capacity)}
}

func (l *FeedbackLog) Append(entry FeedbackEntry) {
	if entry.Recorded.IsZero() {
		entry.Recorded = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = entry
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.filled = true
	}
}

func (l *FeedbackLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.filled {
		return len(l.entries)
	}
	return l.next
}

// Summarize averages scores and ranks the most frequent issue messages
// across the most recent limit entries (all retained entries when fewer
// exist; limit <= 0 uses the default window). At most five issues are
// reported, ordered by count descending with message order breaking ties
// deterministically.
func (l *FeedbackLog) Summarize(limit int) Summary {
	if limit <= 0 {
		limit = defaultSummaryWindow
	}

	l.mu.Lock()
	window := l.recentLocked(limit)
	l.mu.Unlock()

	count := len(window)
	summary := Summary{Analyses: count, CommonIssues: []IssueCount{}}
	if count == 0 {
		return summary
	}

	issueCounts := make(map[string]int)
	for _, entry := range window {
		summary.AverageScores.Syntax += entry.Scores.Syntax
		summary.AverageScores.Security += entry.Scores.Security
		summary.AverageScores.Performance += entry.Scores.Performance
		summary.AverageScores.Semantic += entry.Scores.Semantic
		summary.AverageScores.Overall += entry.Scores.Overall
		for _, issue := range entry.Issues {
			issueCounts[issue]++
		}
	}
	divisor := float64(count)
	summary.AverageScores.Syntax /= divisor
	summary.AverageScores.Security /= divisor
	summary.AverageScores.Performance /= divisor
	summary.AverageScores.Semantic /= divisor
	summary.AverageScores.Overall /= divisor

	ranked := make([]IssueCount, 0, len(issueCounts))
	for message, n := range issueCounts {
		ranked = append(ranked, IssueCount{Message: message, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Message < ranked[j].Message
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	summary.CommonIssues = ranked
	return summary
}

// recentLocked returns up to limit entries in insertion order, newest last.
// Callers must hold the mutex.
func (l *FeedbackLog) recentLocked(limit int) []FeedbackEntry {
	var ordered []FeedbackEntry
	if l.filled {
		ordered = make([]FeedbackEntry, 0, len(l.entries))
		ordered = append(ordered, l.entries[l.next:]...)
		ordered = append(ordered, l.entries[:l.next]...)
	} else {
		ordered = make([]FeedbackEntry, l.next)
		copy(ordered, l.entries[:l.next])
	}
	if len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}
