package css

import (
	"strconv"
	"strings"
)

// ParsePx parses a bare number or a px length. Other units and keywords
// yield 0.
func ParsePx(value string) float64 {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseLength parses a px length or bare number. ok is false for keywords
// such as auto and normal.
func ParseLength(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StripUnit removes a trailing alphabetic unit from a numeric value:
// "2px" becomes "2". Non-numeric values are returned unchanged.
func StripUnit(value string) string {
	v := strings.TrimSpace(value)
	i := len(v)
	for i > 0 {
		c := v[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	if i == len(v) || i == 0 {
		return v
	}
	if _, err := strconv.ParseFloat(v[:i], 64); err != nil {
		return v
	}
	return v[:i]
}

// CollapseWhitespace replaces every run of space, tab, newline, carriage
// return and form feed with one space. Leading and trailing whitespace is
// removed only when trim is set.
func CollapseWhitespace(s string, trim bool) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
				space = true
			}
		default:
			b.WriteRune(r)
			space = false
		}
	}
	out := b.String()
	if trim {
		out = strings.Trim(out, " ")
	}
	return out
}
