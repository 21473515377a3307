package analyzer

import "strings"

// Keywords upcased by the formatter. Identifiers and literals are left
// untouched.
var formatterKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"not": true, "in": true, "exists": true, "between": true, "like": true,
	"is": true, "null": true, "order": true, "group": true, "by": true,
	"having": true, "join": true, "inner": true, "left": true, "right": true,
	"full": true, "outer": true, "cross": true, "on": true, "as": true,
	"with": true, "union": true, "all": true, "distinct": true, "top": true,
	"case": true, "when": true, "then": true, "else": true, "end": true,
	"asc": true, "desc": true, "count": true, "sum": true, "avg": true,
	"min": true, "max": true, "insert": true, "update": true, "delete": true,
	"create": true, "alter": true, "drop": true, "into": true, "values": true,
	"set": true, "limit": true, "offset": true, "fetch": true, "next": true,
	"rows": true, "only": true,
}

// OptimizeSQL produces the normalized form of a query: keywords upcased,
// whitespace collapsed, trailing semicolon ensured. The transform is
// formatting-only; string literals, comments, and structure are preserved,
// so validity is unchanged. If the query cannot be tokenized it is returned
// as-is.
func OptimizeSQL(sqlText string) string {
	tokens, err := lex(sqlText)
	if err != nil {
		return sqlText
	}

	var out strings.Builder
	out.Grow(len(sqlText))
	pendingSpace := false

	for _, tok := range tokens {
		if tok.kind == tokenSpace {
			pendingSpace = out.Len() > 0
			continue
		}
		if pendingSpace {
			out.WriteByte(' ')
			pendingSpace = false
		}
		if tok.kind == tokenWord && formatterKeywords[strings.ToLower(tok.text)] {
			out.WriteString(strings.ToUpper(tok.text))
			continue
		}
		out.WriteString(tok.text)
		// a line comment must keep its terminator or it would swallow the
		// rest of the statement
		if tok.kind == tokenComment && strings.HasPrefix(tok.text, "--") {
			out.WriteByte('\n')
		}
	}

	formatted := strings.TrimSpace(out.String())
	if formatted != "" && !strings.HasSuffix(formatted, ";") {
		formatted += ";"
	}
	return formatted
}
