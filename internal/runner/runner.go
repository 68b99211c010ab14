// Package runner drives the per-file pipeline (read, decode, format,
// validate, write) over an ordered list of candidate paths and
// aggregates the outcomes into a run summary and exit code.
//
// Files are processed strictly sequentially in input order so summaries
// and reports are deterministic. The only early-termination mechanism is
// fail-fast, checked between files; single-file I/O is never interrupted
// and the atomic writer guarantees a stopped run leaves no half-written
// target.
package runner

import (
	"context"
	"os"
	"time"

	"cfgfmt/internal/format"
	"cfgfmt/internal/fsio"
	"cfgfmt/internal/sig"
	"cfgfmt/internal/textenc"
)

// Options configures one batch run.
type Options struct {
	// Check reports pending changes without writing anything.
	Check bool
	// FailFast stops processing after the first failed file.
	FailFast bool
	// Backup writes a timestamped sibling copy before each rewrite.
	Backup bool
	// Cache, when non-nil, skips files already known to be clean.
	Cache *CleanCache
	// Format is the transform configuration.
	Format format.Options
	// Codec decodes and encodes file content. Required.
	Codec *textenc.Codec
}

// Runner executes batch runs. Construct with New.
type Runner struct {
	opts Options
	// formatText is swappable in tests to exercise the signature gate.
	formatText func(string, format.Options) format.Result
	now        func() time.Time
}

// New returns a Runner for the given options.
func New(opts Options) *Runner {
	return &Runner{
		opts:       opts,
		formatText: format.Text,
		now:        time.Now,
	}
}

// Run processes paths in order and returns one FileResult per processed
// file plus the aggregate summary. With fail-fast enabled, files after
// the first failure are not processed and are absent from both. The
// returned error is non-nil only for run-level interruption (context
// cancellation), never for per-file failures.
func (r *Runner) Run(ctx context.Context, paths []string) ([]FileResult, Summary, error) {
	results := make([]FileResult, 0, len(paths))
	var summary Summary

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}

		res := r.processFile(path)
		results = append(results, res)
		summary.add(res.Outcome)

		if r.opts.FailFast && res.Outcome == OutcomeFailed {
			break
		}
	}
	return results, summary, nil
}

// processFile runs the full pipeline for one file. Every failure is
// converted into an OutcomeFailed result; nothing escapes as a panic or
// run-level error.
func (r *Runner) processFile(path string) FileResult {
	fail := func(err error) FileResult {
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: err}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fail(&fsio.PipelineError{Stage: fsio.StageRead, Err: err})
	}

	digest := CleanDigest(raw, r.opts.Format, r.opts.Codec.Name())
	if r.opts.Cache.IsClean(digest) {
		return FileResult{Path: path, Outcome: OutcomeUnchanged}
	}

	text, err := r.opts.Codec.Decode(raw)
	if err != nil {
		return fail(&fsio.PipelineError{Stage: fsio.StageDecode, Err: err})
	}

	fres := r.formatText(text, r.opts.Format)

	// Lines that had to revert to their original form mean the transform
	// broke their signature. That is a formatter defect, not a formatted
	// file: the whole file fails and nothing is written.
	if len(fres.SigFallbackLines) > 0 {
		return FileResult{
			Path:             path,
			Outcome:          OutcomeFailed,
			Err:              &sig.MismatchError{Lines: fres.SigFallbackLines},
			SigFallbackLines: fres.SigFallbackLines,
		}
	}

	// The single safety gate: no candidate that alters non-whitespace
	// content may reach disk, whatever mode we run in.
	if err := sig.Validate(text, fres.Text); err != nil {
		return fail(err)
	}

	if !fres.Changed {
		// Remember clean files so the next run can skip them. Cache
		// trouble must never fail a healthy file.
		_ = r.opts.Cache.MarkClean(digest, len(raw))
		return FileResult{Path: path, Outcome: OutcomeUnchanged}
	}

	if r.opts.Check {
		return FileResult{Path: path, Outcome: OutcomePendingChange}
	}

	if r.opts.Backup {
		if _, err := fsio.Backup(path, r.now()); err != nil {
			return fail(err)
		}
	}
	if err := fsio.AtomicWriteText(path, fres.Text, r.opts.Codec); err != nil {
		return fail(err)
	}

	if encoded, encErr := r.opts.Codec.Encode(fres.Text); encErr == nil {
		_ = r.opts.Cache.MarkClean(CleanDigest(encoded, r.opts.Format, r.opts.Codec.Name()), len(encoded))
	}
	return FileResult{Path: path, Outcome: OutcomeFormatted}
}
