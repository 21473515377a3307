package analyzer

import "testing"

func TestCheckDialectNotices(t *testing.T) {
	cases := []struct {
		name    string
		sql     string
		warning string
	}{
		{"ntext", "SELECT CAST(note AS NTEXT) FROM dbo.notes", "NTEXT data type is deprecated, use NVARCHAR(MAX)"},
		{"nolock", "SELECT id FROM dbo.orders WITH (NOLOCK)", "NOLOCK hint can cause dirty reads - use carefully"},
		{"unqualified table", "SELECT id FROM orders", "Consider using schema-qualified table names (e.g. dbo.TableName)"},
		{"slash date", "SELECT id FROM dbo.orders WHERE placed_at > '12/31/2024'", "Use ISO date format (YYYY-MM-DD) for better portability"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			warnings := CheckDialect(tc.sql)
			if !containsString(warnings, tc.warning) {
				t.Fatalf("warnings = %v, missing %q", warnings, tc.warning)
			}
		})
	}
}

func TestCheckDialectQuietOnQualifiedQuery(t *testing.T) {
	warnings := CheckDialect("SELECT id, placed_at FROM dbo.orders WHERE placed_at > '2024-12-31'")
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
}
