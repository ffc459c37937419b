package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokString
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits one source line into whitespace separated words and Go
// quoted string literals. A word starting with "//" or "#" ends the line.
func tokenize(line string) ([]token, error) {
	var tokens []token
	rest := line
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return tokens, nil
		}
		if strings.HasPrefix(rest, "//") || rest[0] == '#' {
			return tokens, nil
		}
		if rest[0] == '"' {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("unterminated string literal")
			}
			s, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: s})
			rest = rest[len(quoted):]
			continue
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		tokens = append(tokens, token{kind: tokWord, text: rest[:end]})
		rest = rest[end:]
	}
}
