package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"plint/internal/diag"
	"plint/internal/modules"
	"plint/internal/report"
	"plint/internal/symbols"
	"plint/internal/version"
)

// Current schema version - increment when cacheEntry format changes
const cacheSchemaVersion uint16 = 1

// Cache stores check results on disk, one file per entry file and
// settings. An entry is valid while every file it read is unchanged.
// A nil *Cache is a valid, disabled cache.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cacheEntry struct {
	Schema      uint16
	Deps        []cacheDep
	Diagnostics []diag.Diagnostic
	Counts      diag.Counts
	Summary     report.Summary
}

// cacheDep is a file or module the result depends on.
type cacheDep struct {
	Path    string // file path, or module name for modules
	Module  bool
	Missing bool // the file could not be read
	Digest  uint64
}

// DefaultCacheDir is $XDG_CACHE_HOME/plint or ~/.cache/plint.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "plint"), nil
}

// OpenCache prepares a cache in dir, DefaultCacheDir when empty.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache location.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// key identifies the entry file under the settings that change results.
func (c *Cache) key(path string, opts Options) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	settings, err := msgpack.Marshal(&opts.Analysis)
	if err != nil {
		return "", err
	}
	h := xxhash.New()
	_, _ = h.WriteString(version.Version)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(abs)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(settings)
	var limit [8]byte
	binary.LittleEndian.PutUint64(limit[:], uint64(max(opts.MaxDiagnostics, 0)))
	_, _ = h.Write(limit[:])
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, "results", key[:2], key+".mp")
}

// Lookup returns the stored result for path when all its dependencies
// are unchanged.
func (c *Cache) Lookup(path string, opts Options, src *modules.Source) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	key, err := c.key(path, opts)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if ok, err := c.read(key, &entry); !ok || err != nil || entry.Schema != cacheSchemaVersion {
		return nil, false
	}
	for _, dep := range entry.Deps {
		if fresh := digestOf(dep.Path, dep.Module, src); fresh != dep {
			return nil, false
		}
	}
	return &Result{
		Path:    path,
		Bag:     diag.RestoreBag(opts.MaxDiagnostics, entry.Diagnostics, entry.Counts),
		Summary: entry.Summary,
		Cached:  true,
	}, true
}

// Store records res together with the digests of every package read.
func (c *Cache) Store(path string, opts Options, src *modules.Source, pkgs []*symbols.Package, res *Result) error {
	if c == nil {
		return nil
	}
	key, err := c.key(path, opts)
	if err != nil {
		return err
	}
	entry := cacheEntry{
		Schema:      cacheSchemaVersion,
		Diagnostics: res.Bag.Items(),
		Counts:      res.Bag.Counts(),
		Summary:     res.Summary,
	}
	for _, p := range pkgs {
		if p.Module {
			entry.Deps = append(entry.Deps, digestOf(strings.TrimPrefix(p.Path, "module:"), true, src))
			continue
		}
		entry.Deps = append(entry.Deps, digestOf(p.Path, false, src))
	}
	return c.write(key, &entry)
}

func digestOf(path string, module bool, src *modules.Source) cacheDep {
	dep := cacheDep{Path: path, Module: module}
	if module {
		_, text, ok := src.Lookup(path)
		if !ok {
			dep.Missing = true
			return dep
		}
		dep.Digest = xxhash.Sum64String(text)
		return dep
	}
	data, err := os.ReadFile(path)
	if err != nil {
		dep.Missing = true
		return dep
	}
	dep.Digest = xxhash.Sum64(data)
	return dep
}

func (c *Cache) write(key string, entry *cacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

func (c *Cache) read(key string, out *cacheEntry) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every stored result.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// rename first so that a concurrent run never sees a half-deleted tree
	results := filepath.Join(c.dir, "results")
	old := results + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(results, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
