// Package project locates and parses .cfgfmt.toml, the optional per-tree
// file holding formatting defaults. Values from the file sit between
// built-in defaults and explicit command-line flags.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up in the target directory and its
// parents.
const ManifestName = ".cfgfmt.toml"

// Manifest is a parsed .cfgfmt.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML structure.
type Config struct {
	Format FormatConfig `toml:"format"`
}

// FormatConfig holds per-tree formatting defaults. Pointer fields
// distinguish "absent" from zero so only values actually present in the
// file override anything.
type FormatConfig struct {
	Align      string   `toml:"align"`
	TabWidth   *int     `toml:"tab_width"`
	KeyCap     *int     `toml:"key_cap"`
	CommentCap *int     `toml:"comment_cap"`
	EchoTables *bool    `toml:"echo_tables"`
	Encoding   string   `toml:"encoding"`
	Exclude    []string `toml:"exclude"`
}

// Find walks from startDir toward the filesystem root looking for a
// manifest file. ok is false when none exists.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir. ok is false when
// no manifest exists; err is set only for unreadable or invalid files.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}
