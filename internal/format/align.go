package format

import (
	"strings"
	"unicode/utf8"

	"cfgfmt/internal/sig"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func hasCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

// hasArtChunk reports a run of two or more _ / \ characters, typical of
// ASCII-art echo banners that must not be re-flowed as tables.
func hasArtChunk(s string) bool {
	run := 0
	for _, r := range s {
		if r == '_' || r == '/' || r == '\\' {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// isEchoTableCandidate decides whether an echo line is a table row whose
// pipe-separated cells should be column-aligned. Banner art and frame
// decorations are deliberately left alone.
func isEchoTableCandidate(r *record, opts Options) bool {
	if opts.NoEchoTables || r.kind != kindCmd || r.comment != "" || r.keyLower != "echo" {
		return false
	}
	body := strings.TrimSpace(r.rest)
	if !strings.Contains(body, "|") {
		return false
	}
	if strings.HasPrefix(body, "~~~") {
		return false
	}
	if strings.Contains(body, "【") && strings.Contains(body, "】") &&
		(strings.Contains(body, "*") || strings.Contains(body, "~")) {
		return false
	}
	pipeCnt := strings.Count(body, "|")
	cjk := hasCJK(body)
	if !cjk && !hasAlnum(body) && pipeCnt <= 3 {
		return false
	}
	if !cjk && hasArtChunk(body) && pipeCnt <= 2 {
		return false
	}
	return true
}

// formatChunk aligns one run of records (no boundary lines inside).
// Every produced line is re-checked against its original's signature; a
// line that would lose or gain non-whitespace content falls back to
// detab+rstrip of the original and its number is appended to fallback.
func formatChunk(recs []*record, opts Options, fallback *[]int) []string {
	specialKeys := opts.specialKeySet()

	// Value column: widest indent+key among command lines that carry a
	// value, capped by KeyCap.
	maxKey := 0
	haveKey := false
	for _, r := range recs {
		if r.kind != kindCmd || r.rest == "" {
			continue
		}
		w := runeLen(r.indent) + runeLen(r.key)
		if !haveKey || w > maxKey {
			maxKey = w
			haveKey = true
		}
	}
	if maxKey > opts.KeyCap {
		maxKey = opts.KeyCap
	}
	if !haveKey {
		maxKey = 0
	}
	valueCol := maxKey + 1

	// Second-quote column for bind/alias style lines.
	maxQ1 := 0
	for _, r := range recs {
		if r.kind != kindCmd || r.rest == "" {
			continue
		}
		if _, special := specialKeys[r.keyLower]; !special {
			continue
		}
		if q1, _, _, ok := splitTwoQuoted(r.rest); ok {
			if w := runeLen(q1); w > maxQ1 {
				maxQ1 = w
			}
		}
	}
	secondCol := valueCol + maxQ1 + 1

	// Echo table column widths, display-width based so CJK cells line up.
	var echoColWidths []int
	for _, r := range recs {
		if !isEchoTableCandidate(r, opts) {
			continue
		}
		body := strings.TrimSpace(r.rest)
		r.echoLead = strings.HasPrefix(body, "|")
		r.echoTrail = strings.HasSuffix(body, "|")
		core := body
		if r.echoLead || r.echoTrail {
			core = strings.Trim(body, "|")
		}
		for _, f := range strings.Split(core, "|") {
			r.echoFields = append(r.echoFields, strings.TrimSpace(f))
		}
		if r.echoLead || r.echoTrail {
			continue
		}
		for i, f := range r.echoFields {
			if i >= len(echoColWidths) {
				echoColWidths = append(echoColWidths, 0)
			}
			if w := visWidth(f); w > echoColWidths[i] {
				echoColWidths[i] = w
			}
		}
	}

	// First pass: the code portion of every command line.
	codeFmts := make([]string, len(recs))
	isCode := make([]bool, len(recs))
	var commentCodeLens []int
	for idx, r := range recs {
		if r.kind != kindCmd {
			continue
		}
		isCode[idx] = true

		var code string
		switch {
		case r.keyLower == "echo":
			if r.echoFields != nil && echoColWidths != nil {
				code = r.indent + r.key + " " + alignEchoRow(r, echoColWidths)
			} else if r.rest == "" {
				code = r.indent + r.key
			} else {
				code = r.indent + r.key + r.rest
			}
		case r.rest == "":
			code = r.indent + r.key
		default:
			leftLen := runeLen(r.indent) + runeLen(r.key)
			pad1 := valueCol - leftLen
			if pad1 < 1 {
				pad1 = 1
			}
			q1, q2, tail, twoQuoted := "", "", "", false
			if _, special := specialKeys[r.keyLower]; special {
				q1, q2, tail, twoQuoted = splitTwoQuoted(r.rest)
			}
			if twoQuoted {
				pad2 := secondCol - (leftLen + pad1 + runeLen(q1))
				if pad2 < 1 {
					pad2 = 1
				}
				code = r.indent + r.key + strings.Repeat(" ", pad1) + q1 + strings.Repeat(" ", pad2) + q2 + tail
			} else {
				code = r.indent + r.key + strings.Repeat(" ", pad1) + r.rest
			}
		}

		codeFmts[idx] = code
		if r.comment != "" {
			commentCodeLens = append(commentCodeLens, runeLen(code))
		}
	}

	// Comment column: widest code portion among commented lines, capped.
	commentTarget := -1
	for _, n := range commentCodeLens {
		if n > commentTarget {
			commentTarget = n
		}
	}
	if commentTarget > opts.CommentCap {
		commentTarget = opts.CommentCap
	}

	// Second pass: attach comments, normalize, verify per-line signature.
	out := make([]string, 0, len(recs))
	for idx, r := range recs {
		if !isCode[idx] {
			out = append(out, checkLine(r, r.line, opts, fallback))
			continue
		}

		line := codeFmts[idx]
		if r.comment != "" {
			if commentTarget >= 0 && runeLen(line) <= commentTarget {
				pad := commentTarget + 1 - runeLen(line)
				if pad < 1 {
					pad = 1
				}
				line += strings.Repeat(" ", pad) + r.comment
			} else {
				line += " " + r.comment
			}
		}
		line = rstripWS(detab(line, opts.TabWidth))
		out = append(out, checkLine(r, line, opts, fallback))
	}
	return out
}

// alignEchoRow renders one echo table row. Rows framed by pipes are only
// normalized (cells rejoined with " | "); open rows are padded to the
// shared column widths.
func alignEchoRow(r *record, colWidths []int) string {
	if r.echoLead || r.echoTrail {
		body := strings.TrimSpace(strings.Join(r.echoFields, " | "))
		if r.echoLead {
			body = "| " + body
		}
		if r.echoTrail {
			body += " |"
		}
		return body
	}
	padded := make([]string, len(r.echoFields))
	for i, f := range r.echoFields {
		w := visWidth(f)
		if i < len(colWidths) && colWidths[i] > w {
			padded[i] = f + strings.Repeat(" ", colWidths[i]-w)
		} else {
			padded[i] = f
		}
	}
	return rstripWS(strings.Join(padded, " | "))
}

// checkLine enforces the per-line signature invariant: any transform that
// would alter non-whitespace content reverts to the detab+rstrip form of
// the original line and records the line number.
func checkLine(r *record, line string, opts Options, fallback *[]int) string {
	if sig.Signature(r.orig) == sig.Signature(line) {
		return line
	}
	*fallback = append(*fallback, r.lineno)
	return rstripWS(detab(r.orig, opts.TabWidth))
}
