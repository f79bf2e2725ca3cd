// Package cache persists per-package scan results between runs so unchanged
// packages are not re-parsed.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/simtools/dbpfkit/internal/tgi"
)

// record is one package's cached identifier list with the stat pair that
// validates it.
type record struct {
	Size     int64     `json:"size"`
	Modified int64     `json:"mtime"`
	TGIs     []tgi.TGI `json:"tgis"`
}

// Cache remembers the identifier list of every package a scan has read,
// keyed by path and validated by file size and modification time. Safe for
// concurrent use.
type Cache struct {
	path string

	mu      sync.Mutex
	records map[string]record
	dirty   bool
}

// DefaultPath returns the cache location under the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".dbpfkit", "scan-cache.json")
	}
	return filepath.Join(home, ".dbpfkit", "scan-cache.json")
}

// Open loads the cache at path. A missing file yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, records: make(map[string]record)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading scan cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.records); err != nil {
		return nil, fmt.Errorf("parsing scan cache %s: %w", path, err)
	}
	return c, nil
}

// Lookup returns the cached identifiers for path when the file on disk
// still matches the recorded size and modification time.
func (c *Cache) Lookup(path string) ([]tgi.TGI, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[path]
	if !ok || rec.Size != info.Size() || rec.Modified != info.ModTime().UnixNano() {
		return nil, false
	}
	return rec.TGIs, true
}

// Store records the identifiers for path against its current stat pair.
// A file that cannot be stat'd is simply not cached.
func (c *Cache) Store(path string, ids []tgi.TGI) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[path] = record{
		Size:     info.Size(),
		Modified: info.ModTime().UnixNano(),
		TGIs:     ids,
	}
	c.dirty = true
}

// Len reports how many packages the cache covers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Save writes the cache back to disk when anything changed since Open.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scan cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing scan cache: %w", err)
	}
	c.dirty = false
	return nil
}
