// Package format implements the whitespace-only normalization of game
// configuration files: tab expansion, trailing-whitespace removal and
// column alignment of key/value/comment lines. It never adds, removes or
// reorders non-whitespace content; every emitted line is checked against
// the original's whitespace-insensitive signature.
package format

import "strings"

// Result is the outcome of formatting one document.
type Result struct {
	// Text is the candidate output, Original the input it was derived
	// from. Changed is true iff they differ.
	Text     string
	Original string
	Changed  bool
	// SigFallbackLines lists 1-based numbers of lines that reverted to
	// their original form because the transform would have altered
	// their signature.
	SigFallbackLines []int
}

// Text formats one document. The dominant newline style (the first line
// ending observed in the input) and the presence of a trailing newline
// are reproduced exactly; the transform never changes either.
func Text(raw string, opts Options) Result {
	opts = opts.withDefaults()

	if raw == "" {
		return Result{Text: "", Original: ""}
	}

	// Dominant style is the first line ending observed; files without
	// any ending default to LF, which never surfaces since there is
	// nothing to join.
	newline := "\n"
	if i := strings.IndexByte(raw, '\n'); i > 0 && raw[i-1] == '\r' {
		newline = "\r\n"
	}
	keepFinalNewline := strings.HasSuffix(raw, "\n")

	lines := strings.Split(raw, "\n")
	if keepFinalNewline {
		lines = lines[:len(lines)-1]
	}

	recs := make([]*record, len(lines))
	for i, l := range lines {
		recs[i] = parseRecord(strings.TrimSuffix(l, "\r"), i+1, opts)
	}

	var fallback []int
	outLines := make([]string, 0, len(recs))

	switch opts.AlignMode {
	case AlignGlobal:
		chunk := make([]*record, 0, len(recs))
		for _, r := range recs {
			if r.kind != kindBoundary {
				chunk = append(chunk, r)
			}
		}
		formatted := formatChunk(chunk, opts, &fallback)
		next := 0
		for _, r := range recs {
			if r.kind == kindBoundary {
				outLines = append(outLines, checkLine(r, r.line, opts, &fallback))
				continue
			}
			outLines = append(outLines, formatted[next])
			next++
		}
	case AlignBlock:
		var block []*record
		flush := func() {
			if len(block) == 0 {
				return
			}
			outLines = append(outLines, formatChunk(block, opts, &fallback)...)
			block = block[:0]
		}
		for _, r := range recs {
			if r.kind == kindBoundary {
				flush()
				outLines = append(outLines, checkLine(r, r.line, opts, &fallback))
				continue
			}
			block = append(block, r)
		}
		flush()
	}

	out := strings.Join(outLines, newline)
	if keepFinalNewline {
		out += newline
	}

	return Result{
		Text:             out,
		Original:         raw,
		Changed:          out != raw,
		SigFallbackLines: fallback,
	}
}
