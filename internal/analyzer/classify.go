package analyzer

import "strings"

var statementKeywords = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP", "WITH",
}

// StripComments removes line (--) and block (/* */) comments. Unterminated
// block comments are dropped through the end of the input, which matches how
// SQL Server would refuse to parse them anyway.
func StripComments(sqlText string) string {
	var out strings.Builder
	out.Grow(len(sqlText))

	for i := 0; i < len(sqlText); {
		if strings.HasPrefix(sqlText[i:], "--") {
			end := strings.IndexByte(sqlText[i:], '\n')
			if end < 0 {
				break
			}
			i += end + 1
			out.WriteByte('\n')
			continue
		}
		if strings.HasPrefix(sqlText[i:], "/*") {
			end := strings.Index(sqlText[i:], "*/")
			if end < 0 {
				break
			}
			i += end + 2
			continue
		}
		out.WriteByte(sqlText[i])
		i++
	}
	return out.String()
}

// Classify determines the statement kind from the first recognized keyword
// after comments and whitespace are removed. It never fails; anything it
// does not recognize is UNKNOWN and not read-only.
func Classify(sqlText string) Classification {
	cleaned := strings.ToUpper(strings.TrimSpace(StripComments(sqlText)))
	if cleaned == "" {
		return Classification{Kind: StatementUnknown}
	}

	first := firstWord(cleaned)
	switch first {
	case "SELECT":
		return Classification{Kind: StatementSelect, ReadOnly: true}
	case "WITH":
		return Classification{Kind: StatementWith, ReadOnly: true}
	case "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP":
		return Classification{Kind: StatementMutating}
	}
	return Classification{Kind: StatementUnknown}
}

func firstWord(text string) string {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= 'A' && c <= 'Z') || c == '_' {
			continue
		}
		return text[:i]
	}
	return text
}
