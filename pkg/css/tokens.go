// Package css parses the computed-style strings the extractor reads:
// colors, shadows, blur filters, linear gradients, lengths and whitespace.
//
// Parsers never fail. Unparseable input degrades to a documented default.
package css

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// splitValue splits a CSS value into its top-level comma-separated groups,
// each a list of whitespace-separated components. Commas and whitespace
// inside parentheses do not split, so "rgba(0, 0, 0, .5) 1px 2px" is three
// components.
func splitValue(value string) [][]string {
	var (
		groups [][]string
		group  []string
		buf    strings.Builder
		depth  int
	)
	flush := func() {
		if buf.Len() > 0 {
			group = append(group, buf.String())
			buf.Reset()
		}
	}

	s := scanner.New(value)
loop:
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			break loop
		case scanner.TokenComment:
		case scanner.TokenFunction:
			depth++
			buf.WriteString(tok.Value)
		case scanner.TokenS:
			if depth == 0 {
				flush()
			} else {
				buf.WriteByte(' ')
			}
		case scanner.TokenChar:
			switch tok.Value {
			case "(":
				depth++
				buf.WriteString(tok.Value)
			case ")":
				if depth > 0 {
					depth--
				}
				buf.WriteString(tok.Value)
			case ",":
				if depth > 0 {
					buf.WriteString(tok.Value)
					continue
				}
				flush()
				groups = append(groups, group)
				group = nil
			default:
				buf.WriteString(tok.Value)
			}
		default:
			buf.WriteString(tok.Value)
		}
	}
	flush()
	if len(group) > 0 || len(groups) > 0 {
		groups = append(groups, group)
	}
	return groups
}

// Fields returns the whitespace-separated components of the first
// comma-separated group of value, keeping function calls whole.
func Fields(value string) []string {
	groups := splitValue(value)
	if len(groups) == 0 {
		return nil
	}
	return groups[0]
}

// functionArgs returns the text between the parentheses of the first call
// of fn in value, honoring nesting.
func functionArgs(value, fn string) (string, bool) {
	lower := strings.ToLower(value)
	from := 0
	for {
		i := strings.Index(lower[from:], fn+"(")
		if i < 0 {
			return "", false
		}
		i += from
		// "repeating-linear-gradient(" is not "linear-gradient(".
		if i > 0 && isIdentChar(lower[i-1]) {
			from = i + len(fn)
			continue
		}
		start := i + len(fn) + 1
		depth := 1
		for j := start; j < len(value); j++ {
			switch value[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return value[start:j], true
				}
			}
		}
		return "", false
	}
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
