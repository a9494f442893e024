// Package buildcache persists per-source compile fingerprints so unchanged
// programs are not recompiled. The backing store is a small JSON file in the
// programs directory, read fully and rewritten fully on each update. It is
// reloaded on every decision rather than cached in memory, so an external
// process mutating the file (or deleting it) is always observed. Cross-process
// read-modify-write is serialized with an advisory flock; hand-deleting the
// file just means everything is treated as stale.
package buildcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/hproftools/heapherd/internal/constants"
	"github.com/hproftools/heapherd/internal/fingerprint"
	"github.com/hproftools/heapherd/internal/util"
)

// Entry records the state of one source at its last successful compile.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	BuiltAt     time.Time `json:"built_at"`
}

// cacheFile is the on-disk shape of the cache.
type cacheFile struct {
	Files map[string]Entry `json:"files"`
}

// Cache answers build-staleness questions and records compile successes.
type Cache struct {
	path string
	lock *flock.Flock
}

// New returns a cache backed by the standard cache file in programsDir.
func New(programsDir string) *Cache {
	path := filepath.Join(programsDir, constants.BuildCacheFile)
	return &Cache{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the backing file.
func (c *Cache) Path() string {
	return c.path
}

// load reads the cache file from disk. A missing or corrupt file yields an
// empty cache: worst case we rebuild everything, which is always safe.
func (c *Cache) load() cacheFile {
	cf := cacheFile{Files: make(map[string]Entry)}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return cf
	}
	if err := json.Unmarshal(data, &cf); err != nil || cf.Files == nil {
		cf.Files = make(map[string]Entry)
	}
	return cf
}

// IsBuildStale reports whether the source named name at srcPath needs a
// rebuild. It is stale when no entry exists, the recorded fingerprint no
// longer matches the file, or the expected compiled output is missing;
// an external cleanup may remove outputs without touching the cache file.
func (c *Cache) IsBuildStale(name, srcPath, classPath string) (bool, error) {
	if _, err := os.Stat(classPath); err != nil {
		return true, nil
	}

	current, err := fingerprint.File(srcPath)
	if err != nil {
		return true, fmt.Errorf("fingerprinting %s: %w", srcPath, err)
	}

	if err := c.lock.Lock(); err != nil {
		return true, fmt.Errorf("locking build cache: %w", err)
	}
	defer c.lock.Unlock()

	entry, ok := c.load().Files[name]
	if !ok {
		return true, nil
	}
	return entry.Fingerprint != current, nil
}

// RecordSuccess stores a fresh fingerprint for name, overwriting any prior
// entry, and persists before returning. Durability here is what keeps a
// crash right after a compile from claiming success without a cache update.
func (c *Cache) RecordSuccess(name, srcPath string) error {
	current, err := fingerprint.File(srcPath)
	if err != nil {
		return fmt.Errorf("fingerprinting %s: %w", srcPath, err)
	}

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("locking build cache: %w", err)
	}
	defer c.lock.Unlock()

	cf := c.load()
	cf.Files[name] = Entry{
		Fingerprint: current,
		BuiltAt:     time.Now(),
	}

	if err := util.AtomicWriteJSON(c.path, cf); err != nil {
		return fmt.Errorf("persisting build cache: %w", err)
	}
	return nil
}
