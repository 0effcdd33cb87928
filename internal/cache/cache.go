// Package cache remembers files already known to comply with a rule set so
// repeated runs can skip them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fortio.org/safecast"
	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Entry changes shape.
const schemaVersion uint16 = 1

// Digest is a sha256 sum.
type Digest [sha256.Size]byte

// Cache stores one msgpack record per target file.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	fs  afero.Fs
	dir string
}

// Entry records that a file with ContentHash complied with the rules
// identified by Signature.
type Entry struct {
	Schema      uint16
	Path        string
	ContentHash Digest
	Signature   Digest
	Size        uint64
}

// Open returns a cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func Open(fsys afero.Fs, app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return New(fsys, filepath.Join(base, app))
}

// New returns a cache rooted at dir, creating it if needed.
func New(fsys afero.Fs, dir string) (*Cache, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{fs: fsys, dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// HashContent digests file content.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// Signature digests a rule selection together with the tool version; any
// change to either invalidates earlier records. Order does not matter.
func Signature(toolVersion string, rules []string) Digest {
	sorted := append([]string(nil), rules...)
	sort.Strings(sorted)
	return sha256.Sum256([]byte(toolVersion + "\x00" + strings.Join(sorted, "\x00")))
}

func (c *Cache) pathFor(target string) string {
	sum := sha256.Sum256([]byte(target))
	return filepath.Join(c.dir, "files", hex.EncodeToString(sum[:])+".mp")
}

// Put writes the record for entry.Path, replacing any earlier one.
func (c *Cache) Put(entry *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = schemaVersion
	p := c.pathFor(entry.Path)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(c.fs, filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		_ = c.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	// atomic replace
	return c.fs.Rename(tmp, p)
}

// Get reads the record for path. A record with another schema is a miss.
func (c *Cache) Get(path string, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := c.fs.Open(c.pathFor(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return false, err
	}
	if e.Schema != schemaVersion || e.Path != path {
		return false, nil
	}
	*out = e
	return true, nil
}

// IsClean reports whether content at path is recorded as compliant under
// signature. Unreadable records count as misses.
func (c *Cache) IsClean(path string, content []byte, signature Digest) bool {
	var e Entry
	ok, err := c.Get(path, &e)
	if err != nil || !ok {
		return false
	}
	size, err := safecast.Conv[uint64](len(content))
	if err != nil || e.Size != size {
		return false
	}
	return e.Signature == signature && e.ContentHash == HashContent(content)
}

// MarkClean records content at path as compliant under signature.
func (c *Cache) MarkClean(path string, content []byte, signature Digest) error {
	if c == nil {
		return nil
	}
	size, err := safecast.Conv[uint64](len(content))
	if err != nil {
		return err
	}
	return c.Put(&Entry{
		Path:        path,
		ContentHash: HashContent(content),
		Signature:   signature,
		Size:        size,
	})
}

// DropAll removes every record.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fs.RemoveAll(filepath.Join(c.dir, "files"))
}
