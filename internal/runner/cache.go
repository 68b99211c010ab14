package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"cfgfmt/internal/format"
)

// Current schema version - increment when cleanPayload format changes.
const cleanCacheSchemaVersion uint16 = 1

// Digest identifies a (file content, formatting options, codec) triple.
type Digest [sha256.Size]byte

// CleanDigest hashes raw file bytes together with the formatting options
// and the codec name, so a cache entry is invalidated by a content edit,
// an option change or a different --encoding.
func CleanDigest(raw []byte, opts format.Options, codecName string) Digest {
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	fmt.Fprintf(h, "align=%s tab=%d keycap=%d commentcap=%d noecho=%t keys=%v enc=%s",
		opts.AlignMode, opts.TabWidth, opts.KeyCap, opts.CommentCap, opts.NoEchoTables, opts.SpecialAlignKeys, codecName)
	var d Digest
	h.Sum(d[:0])
	return d
}

// CleanCache remembers files already known to be clean under the current
// options, so repeated CI runs skip re-formatting byte-identical input.
// A nil *CleanCache disables caching; all methods tolerate it.
type CleanCache struct {
	mu  sync.Mutex
	dir string
}

type cleanPayload struct {
	Schema    uint16
	Size      uint64
	CheckedAt int64
}

// OpenCleanCache initializes the cache at the standard user location.
func OpenCleanCache(app string) (*CleanCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CleanCache{dir: dir}, nil
}

func (c *CleanCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "clean", hex.EncodeToString(key[:])+".mp")
}

// IsClean reports whether key was previously marked clean. Cache read
// problems count as a miss, never as an error.
func (c *CleanCache) IsClean(key Digest) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return false
	}
	defer f.Close()

	var payload cleanPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false
	}
	return payload.Schema == cleanCacheSchemaVersion
}

// MarkClean records key as clean, writing the entry atomically so a
// crashed run never leaves a truncated cache file.
func (c *CleanCache) MarkClean(key Digest, size int) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sz, err := safecast.Conv[uint64](size)
	if err != nil {
		return err
	}
	payload := cleanPayload{
		Schema:    cleanCacheSchemaVersion,
		Size:      sz,
		CheckedAt: time.Now().Unix(),
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// DropAll invalidates every cache entry, useful after upgrades that
// change formatting behavior.
func (c *CleanCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
