package analyzer

import "strings"

// ExtractTableNames pulls table names out of the query with a shallow token
// scan: the first identifier after FROM, JOIN, UPDATE, or INTO. Schema
// prefixes and quoting are stripped. Best effort only; subquery aliases can
// slip through and that is accepted.
func ExtractTableNames(sqlText string) []string {
	tokens, err := lex(sqlText)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	names := make([]string, 0, 2)
	expectTable := false

	for _, tok := range tokens {
		if tok.kind == tokenSpace || tok.kind == tokenComment {
			continue
		}
		if tok.kind == tokenWord {
			switch strings.ToUpper(tok.text) {
			case "FROM", "JOIN", "UPDATE", "INTO":
				expectTable = true
				continue
			}
			if expectTable {
				name := cleanTableName(tok.text)
				if name != "" && !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		expectTable = false
	}
	return names
}

func cleanTableName(raw string) string {
	name := strings.Trim(raw, `[]"`)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.Trim(name, `[]"`)
}
