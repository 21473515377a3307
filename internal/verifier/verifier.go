// Package verifier provides the live execution handle used by the analyzer
// for optional query verification. It wraps a database/sql handle supplied
// by the host process; it never builds connection strings or manages
// credentials itself.
package verifier

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sqlgate/sqlgate/internal/analyzer"
)

type Config struct {
	// QueryTimeout bounds a single verification query. Zero means the
	// default of 30 seconds.
	QueryTimeout time.Duration
	// MaxRows hard-caps rows materialized into memory regardless of the
	// row cap requested per call.
	MaxRows int
}

const (
	defaultQueryTimeout = 30 * time.Second
	defaultMaxRows      = 1000
)

// Runner implements analyzer.ExecutionHandle over *sql.DB.
type Runner struct {
	db           *sql.DB
	queryTimeout time.Duration
	maxRows      int
}

func NewRunner(db *sql.DB, cfg Config) *Runner {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	return &Runner{db: db, queryTimeout: timeout, maxRows: maxRows}
}

// ExecuteSelect runs a read-only query and materializes at most rowCap
// rows. The analyzer has already injected a row-limiting clause; the scan
// loop enforces the cap again so a dialect that ignored the clause still
// cannot flood memory.
func (r *Runner) ExecuteSelect(ctx context.Context, sqlText string, rowCap int) (analyzer.ExecutionResult, error) {
	if r.db == nil {
		return analyzer.ExecutionResult{}, fmt.Errorf("no database handle configured")
	}
	if strings.TrimSpace(sqlText) == "" {
		return analyzer.ExecutionResult{}, fmt.Errorf("sql is required")
	}
	if rowCap <= 0 || rowCap > r.maxRows {
		rowCap = r.maxRows
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := r.db.QueryContext(queryCtx, sqlText)
	if err != nil {
		return analyzer.ExecutionResult{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return analyzer.ExecutionResult{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		if len(resultRows) >= rowCap {
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return analyzer.ExecutionResult{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return analyzer.ExecutionResult{}, fmt.Errorf("iterate rows: %w", err)
	}

	return analyzer.ExecutionResult{
		Columns: columns,
		Rows:    resultRows,
		Elapsed: time.Since(start),
	}, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
