package analyzer

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
	tokenString
	tokenComment
	tokenSymbol
	tokenSpace
)

type token struct {
	kind tokenKind
	text string
}

// lex splits SQL text into a flat token stream. It is deliberately
// permissive: it classifies words, numbers, literals, comments, and symbols
// without enforcing any grammar, which keeps it tolerant of dialect quirks.
func lex(sqlText string) ([]token, error) {
	tokens := make([]token, 0, len(sqlText)/4)

	for i := 0; i < len(sqlText); {
		c := sqlText[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			j := i
			for j < len(sqlText) && isSpaceByte(sqlText[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokenSpace, text: sqlText[i:j]})
			i = j
		case c == '\'':
			j := i + 1
			for {
				if j >= len(sqlText) {
					return nil, fmt.Errorf("unterminated string literal at offset %d", i)
				}
				if sqlText[j] == '\'' {
					// doubled quote is an escaped quote inside the literal
					if j+1 < len(sqlText) && sqlText[j+1] == '\'' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			tokens = append(tokens, token{kind: tokenString, text: sqlText[i:j]})
			i = j
		case c == '[':
			j := strings.IndexByte(sqlText[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("unterminated bracketed identifier at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokenWord, text: sqlText[i : i+j+1]})
			i += j + 1
		case strings.HasPrefix(sqlText[i:], "--"):
			j := strings.IndexByte(sqlText[i:], '\n')
			if j < 0 {
				j = len(sqlText) - i
			}
			tokens = append(tokens, token{kind: tokenComment, text: sqlText[i : i+j]})
			i += j
		case strings.HasPrefix(sqlText[i:], "/*"):
			j := strings.Index(sqlText[i:], "*/")
			if j < 0 {
				j = len(sqlText) - i
			} else {
				j += 2
			}
			tokens = append(tokens, token{kind: tokenComment, text: sqlText[i : i+j]})
			i += j
		case isWordStart(c):
			j := i + 1
			for j < len(sqlText) && isWordByte(sqlText[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokenWord, text: sqlText[i:j]})
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(sqlText) && (sqlText[j] >= '0' && sqlText[j] <= '9' || sqlText[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: sqlText[i:j]})
			i = j
		default:
			tokens = append(tokens, token{kind: tokenSymbol, text: sqlText[i : i+1]})
			i++
		}
	}
	return tokens, nil
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '@' || c == '#' || c == '"'
}

func isWordByte(c byte) bool {
	return isWordStart(c) || c >= '0' && c <= '9' || c == '$' || c == '.' || c == '"'
}
