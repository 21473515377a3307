package migrations

import (
	"strings"
	"testing"
)

func TestHistoryMigrationContainsRequiredTablesAndIndexes(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_history.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(body)
	requiredSnippets := []string{
		"CREATE TABLE query_history",
		"syntax_score",
		"semantic_score",
		"performance_score",
		"security_score",
		"overall_score",
		"CREATE INDEX idx_query_history_created_at_desc",
		"CREATE INDEX idx_query_history_is_valid",
	}

	for _, snippet := range requiredSnippets {
		if !strings.Contains(sql, snippet) {
			t.Fatalf("migration missing required snippet: %s", snippet)
		}
	}
}

func TestHistoryMigrationHasMatchingDown(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_history.down.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(body), "DROP TABLE IF EXISTS query_history") {
		t.Fatalf("down migration does not drop query_history: %s", string(body))
	}
}
