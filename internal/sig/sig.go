// Package sig implements the whitespace-insensitive signature that gates
// every write: stripping all blank characters from the formatted text must
// yield exactly the bytes of the stripped original, or the file is rejected.
package sig

import (
	"fmt"
	"strings"
)

// Signature returns s with every space, tab, CR, LF, FF and VT removed.
// Two texts with equal signatures carry the same non-whitespace content in
// the same order.
func Signature(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			return -1
		}
		return r
	}, s)
}

// Equal reports whether original and candidate have the same signature.
func Equal(original, candidate string) bool {
	return Signature(original) == Signature(candidate)
}

// MismatchError describes a strict signature failure. Lines holds the
// 1-based numbers of lines whose per-line signatures differ; it is a
// localization aid only and does not affect pass/fail.
type MismatchError struct {
	Lines []int
}

func (e *MismatchError) Error() string {
	if len(e.Lines) == 0 {
		return "strict signature mismatch"
	}
	const maxShown = 10
	shown := e.Lines
	var more string
	if len(shown) > maxShown {
		more = fmt.Sprintf(" (+%d)", len(shown)-maxShown)
		shown = shown[:maxShown]
	}
	parts := make([]string, len(shown))
	for i, n := range shown {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "strict signature mismatch at line(s) " + strings.Join(parts, ",") + more
}

// Validate accepts the candidate iff its signature equals the original's.
// On mismatch it returns a *MismatchError naming the differing lines.
func Validate(original, candidate string) error {
	if Equal(original, candidate) {
		return nil
	}
	return &MismatchError{Lines: mismatchLines(original, candidate)}
}

// mismatchLines compares the two texts line by line and collects the
// 1-based numbers of lines whose signatures differ. Lines present in only
// one of the texts count as mismatches when they carry content.
func mismatchLines(original, candidate string) []int {
	origLines := strings.Split(original, "\n")
	candLines := strings.Split(candidate, "\n")

	n := len(origLines)
	if len(candLines) > n {
		n = len(candLines)
	}

	var lines []int
	for i := 0; i < n; i++ {
		var o, c string
		if i < len(origLines) {
			o = origLines[i]
		}
		if i < len(candLines) {
			c = candLines[i]
		}
		if Signature(o) != Signature(c) {
			lines = append(lines, i+1)
		}
	}
	return lines
}
