package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sqlgate/sqlgate/internal/history"
)

// Store is the Postgres-backed history.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping history db: %w", err)
	}
	return nil
}

func (s *Store) AppendQuery(ctx context.Context, in history.AppendInput) (history.Record, error) {
	query := `
INSERT INTO query_history (natural_language, sql_text, optimized_sql, is_valid, syntax_score, semantic_score, performance_score, security_score, overall_score)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING history_id, created_at`

	record := history.Record{
		NaturalLanguage: in.NaturalLanguage,
		SQL:             in.SQL,
		OptimizedSQL:    in.OptimizedSQL,
		IsValid:         in.IsValid,
		Scores:          in.Scores,
	}
	if err := s.db.QueryRowContext(ctx, query,
		in.NaturalLanguage,
		in.SQL,
		in.OptimizedSQL,
		in.IsValid,
		in.Scores.Syntax,
		in.Scores.Semantic,
		in.Scores.Performance,
		in.Scores.Security,
		in.Scores.Overall,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return history.Record{}, fmt.Errorf("append query history: %w", err)
	}
	return record, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT history_id, natural_language, sql_text, optimized_sql, is_valid, syntax_score, semantic_score, performance_score, security_score, overall_score, created_at
FROM query_history
ORDER BY history_id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]history.Record, 0)
	for rows.Next() {
		var record history.Record
		if err := rows.Scan(
			&record.ID,
			&record.NaturalLanguage,
			&record.SQL,
			&record.OptimizedSQL,
			&record.IsValid,
			&record.Scores.Syntax,
			&record.Scores.Semantic,
			&record.Scores.Performance,
			&record.Scores.Security,
			&record.Scores.Overall,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan query history row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query history rows: %w", err)
	}
	return records, nil
}
