package format

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// detab expands every TAB to spaces using fixed tab stops: a TAB advances
// the column to the next multiple of tabWidth. Columns count runes, which
// is exact for the ASCII command text these files contain.
func detab(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + tabWidth)
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// rstripWS removes trailing blank characters, leaving line endings to the
// document layer (lines here never include their ending).
func rstripWS(s string) string {
	return strings.TrimRight(s, " \t\r\f\v")
}

// visWidth estimates the on-screen width of s in a monospaced console:
// fullwidth/CJK runes count 2, combining marks 0, everything else 1.
func visWidth(s string) int {
	return runewidth.StringWidth(s)
}

// commentPos returns the index of the first "//" outside double quotes,
// or -1 if the line has no trailing comment.
func commentPos(s string) int {
	inQuote := false
	for i := 0; i+1 < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && s[i] == '/' && s[i+1] == '/':
			return i
		}
	}
	return -1
}

// splitIndentKeyRest splits a code fragment into leading indent, the first
// word (the command key) and the remainder. For every key except "echo"
// the whitespace between key and remainder collapses; echo keeps it
// verbatim because its argument may use spaces as ASCII-art layout.
func splitIndentKeyRest(code string) (indent, key, rest string, ok bool) {
	runes := []rune(code)
	n := len(runes)

	i := 0
	for i < n && unicode.IsSpace(runes[i]) {
		i++
	}
	if i >= n {
		return "", "", "", false
	}
	indent = string(runes[:i])

	j := i
	for j < n && !unicode.IsSpace(runes[j]) {
		j++
	}
	key = string(runes[i:j])

	rest = string(runes[j:])
	if !strings.EqualFold(key, "echo") {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	}
	return indent, key, rest, true
}

// splitTwoQuoted extracts the first two double-quoted strings from rest
// ("..." "..." tail). ok is false when rest does not begin with that shape.
func splitTwoQuoted(rest string) (q1, q2, tail string, ok bool) {
	s := rest
	n := len(s)

	i := 0
	for i < n && isSpaceByte(s[i]) {
		i++
	}
	if i >= n || s[i] != '"' {
		return "", "", "", false
	}
	j := i + 1
	for j < n && s[j] != '"' {
		j++
	}
	if j >= n {
		return "", "", "", false
	}
	q1 = s[i : j+1]

	k := j + 1
	for k < n && isSpaceByte(s[k]) {
		k++
	}
	if k >= n || s[k] != '"' {
		return "", "", "", false
	}
	m := k + 1
	for m < n && s[m] != '"' {
		m++
	}
	if m >= n {
		return "", "", "", false
	}
	q2 = s[k : m+1]
	tail = s[m+1:]
	return q1, q2, tail, true
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}
