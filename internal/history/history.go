// Package history records analyzed queries and aggregates feedback trends
// over recent analyses.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/sqlgate/sqlgate/internal/analyzer"
)

var ErrNotFound = errors.New("history: not found")

// Record is one analyzed query as persisted in the history store.
type Record struct {
	ID              int64           `json:"id"`
	NaturalLanguage string          `json:"natural_language,omitempty"`
	SQL             string          `json:"sql"`
	OptimizedSQL    string          `json:"optimized_sql,omitempty"`
	IsValid         bool            `json:"is_valid"`
	Scores          analyzer.Scores `json:"scores"`
	CreatedAt       time.Time       `json:"created_at"`
}

type AppendInput struct {
	NaturalLanguage string
	SQL             string
	OptimizedSQL    string
	IsValid         bool
	Scores          analyzer.Scores
}

// Store persists analyzed queries. Implementations must be safe for
// concurrent use.
type Store interface {
	HealthCheck(ctx context.Context) error
	AppendQuery(ctx context.Context, in AppendInput) (Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
