package runner

// Outcome classifies the result of processing one file. Exactly one
// outcome is produced per candidate file per run.
type Outcome uint8

const (
	// OutcomeUnchanged means the file was already clean.
	OutcomeUnchanged Outcome = iota
	// OutcomeFormatted means the file was rewritten in place.
	OutcomeFormatted
	// OutcomePendingChange means check mode found work but wrote nothing.
	OutcomePendingChange
	// OutcomeFailed means the file could not be processed; FileResult
	// carries the reason.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFormatted:
		return "formatted"
	case OutcomePendingChange:
		return "pending"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is the per-file record handed to the reporting layer.
type FileResult struct {
	Path    string
	Outcome Outcome
	// Err is set iff Outcome is OutcomeFailed.
	Err error
	// SigFallbackLines lists lines the formatter had to revert to
	// protect their signature. Any reverted line fails the file, so
	// this is only set alongside OutcomeFailed.
	SigFallbackLines []int
}

// Summary tallies outcomes over one run.
type Summary struct {
	Formatted int
	Unchanged int
	Pending   int
	Failed    int
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeFormatted:
		s.Formatted++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomePendingChange:
		s.Pending++
	case OutcomeFailed:
		s.Failed++
	}
}

// Total returns the number of files the summary accounts for.
func (s Summary) Total() int {
	return s.Formatted + s.Unchanged + s.Pending + s.Failed
}

// ExitCode derives the process exit code from the aggregate counts and
// the active mode: failures always win (2), pending changes only matter
// in check mode (1), everything else is success (0).
func ExitCode(s Summary, check bool) int {
	if s.Failed > 0 {
		return 2
	}
	if check && s.Pending > 0 {
		return 1
	}
	return 0
}
