package format

import "strings"

// lineKind classifies a physical line for the aligner.
type lineKind uint8

const (
	// kindCmd is a "key value [comment]" command line, eligible for
	// column alignment.
	kindCmd lineKind = iota
	// kindPass is a line that is only detabbed and trimmed (pure
	// comments, unparseable shapes).
	kindPass
	// kindBoundary terminates an alignment block (blank lines, and in
	// block mode the configured boundary lines).
	kindBoundary
)

// record is one physical line after pre-parsing. orig is the raw line
// (ending excluded), line the detab+rstrip normalization.
type record struct {
	kind     lineKind
	orig     string
	line     string
	lineno   int
	indent   string
	key      string
	keyLower string
	rest     string
	comment  string

	echoFields []string
	echoLead   bool
	echoTrail  bool
}

// isSeparatorCommentLine recognizes decorative divider comments such as
// "// +----------+" used to rule sections apart. They act as block
// boundaries so tables on either side align independently.
func isSeparatorCommentLine(line string) bool {
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "//") {
		return false
	}
	body := strings.TrimLeft(s[2:], " \t")
	if !strings.HasPrefix(body, "+") {
		return false
	}
	if strings.ContainsRune(body, '*') {
		return true
	}
	deco := 0
	for _, r := range body {
		if strings.ContainsRune("#-_=+|", r) {
			deco++
		}
	}
	n := len([]rune(body))
	if n == 0 {
		return false
	}
	return float64(deco)/float64(n) >= 0.60 && n >= 10
}

// isBlockBoundary implements the block partition policy: blank lines,
// bare "echo;" lines and separator comments end the current block.
func isBlockBoundary(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	if s == "" || s == "echo;" {
		return true
	}
	return isSeparatorCommentLine(line)
}

// parseRecord classifies one line and, for command lines, splits it into
// indent/key/rest plus the trailing comment.
func parseRecord(orig string, lineno int, opts Options) *record {
	line := rstripWS(detab(orig, opts.TabWidth))

	if opts.AlignMode == AlignBlock && isBlockBoundary(line) {
		return &record{kind: kindBoundary, orig: orig, line: line, lineno: lineno}
	}
	if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
		return &record{kind: kindPass, orig: orig, line: line, lineno: lineno}
	}
	if strings.TrimSpace(line) == "" {
		return &record{kind: kindBoundary, orig: orig, line: line, lineno: lineno}
	}

	code, comment := line, ""
	if pos := commentPos(line); pos >= 0 {
		code, comment = rstripWS(line[:pos]), line[pos:]
	}

	indent, key, rest, ok := splitIndentKeyRest(code)
	if !ok {
		return &record{kind: kindPass, orig: orig, line: line, lineno: lineno}
	}

	return &record{
		kind:     kindCmd,
		orig:     orig,
		line:     line,
		lineno:   lineno,
		indent:   indent,
		key:      key,
		keyLower: strings.ToLower(key),
		rest:     rest,
		comment:  comment,
	}
}
