// Package fsio provides the read/backup/write pipeline for formatted
// files. Writes are atomic: the target is either fully replaced or left
// byte-identical, never observable in a half-written state.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cfgfmt/internal/textenc"
)

// Stage names the part of the write pipeline an error came from.
type Stage string

const (
	StageRead    Stage = "read"
	StageDecode  Stage = "decode"
	StageBackup  Stage = "backup"
	StageWrite   Stage = "write"
	StageReplace Stage = "replace"
)

// PipelineError wraps an I/O or codec failure with the stage it occurred
// in. The original file is guaranteed untouched for every stage except a
// completed replace.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// splitStemSuffix splits a base name so that rebuilt names keep the final
// extension: "demo.cfg.old.cfg" -> ("demo.cfg.old", ".cfg").
func splitStemSuffix(base string) (stem, suffix string) {
	suffix = filepath.Ext(base)
	return strings.TrimSuffix(base, suffix), suffix
}

// BackupPath returns the sibling backup name for path at the given time:
// <stem>.bak.<YYYYMMDD-HHMMSS><suffix>. The timestamp sorts
// lexicographically by creation time.
func BackupPath(path string, now time.Time) string {
	dir := filepath.Dir(path)
	stem, suffix := splitStemSuffix(filepath.Base(path))
	return filepath.Join(dir, fmt.Sprintf("%s.bak.%s%s", stem, now.Format("20060102-150405"), suffix))
}

// Backup copies path to its timestamped backup name, preserving the file
// mode, and returns the backup path. The original is never modified.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &PipelineError{Stage: StageBackup, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &PipelineError{Stage: StageBackup, Err: err}
	}
	bak := BackupPath(path, now)
	if err := os.WriteFile(bak, data, info.Mode().Perm()); err != nil {
		return "", &PipelineError{Stage: StageBackup, Err: err}
	}
	return bak, nil
}

// TempPath returns the temp name used while replacing path:
// <stem>.tmp.<runID><suffix>, in the same directory so the final rename
// stays on one filesystem.
func TempPath(path string, runID int) string {
	dir := filepath.Dir(path)
	stem, suffix := splitStemSuffix(filepath.Base(path))
	return filepath.Join(dir, fmt.Sprintf("%s.tmp.%d%s", stem, runID, suffix))
}

// AtomicWriteText encodes text with the codec and atomically replaces
// path: encode, write a sibling temp file, rename over the original. On
// any failure the original is untouched and the temp file is removed.
func AtomicWriteText(path, text string, codec *textenc.Codec) error {
	data, err := codec.Encode(text)
	if err != nil {
		return &PipelineError{Stage: StageWrite, Err: err}
	}

	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp := TempPath(path, os.Getpid())
	// Armed before the temp file can exist: a write that fails after
	// creating the file still gets cleaned up. Rename consumes the temp
	// file on success, making the remove a no-op.
	defer func() { _ = os.Remove(tmp) }()

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return &PipelineError{Stage: StageWrite, Err: err}
	}

	if err := os.Rename(tmp, path); err != nil {
		return &PipelineError{Stage: StageReplace, Err: err}
	}
	return nil
}
