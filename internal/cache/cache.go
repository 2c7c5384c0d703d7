// Package cache is a small disk cache for expensive inputs, keyed by
// name with freshness checks against age and an optional source file.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/solstice035/health-analytics/internal/logging"
)

// DefaultMaxAge is how long entries stay valid without a source file
// forcing earlier invalidation.
const DefaultMaxAge = 24 * time.Hour

// Stats counts cache effectiveness over the process lifetime.
type Stats struct {
	Hits          int `json:"hits"`
	Misses        int `json:"misses"`
	Invalidations int `json:"invalidations"`
}

type meta struct {
	Key         string    `json:"key"`
	CreatedAt   time.Time `json:"created_at"`
	SourcePath  string    `json:"source_path,omitempty"`
	SourceMtime int64     `json:"source_mtime,omitempty"`
	SizeBytes   int       `json:"size_bytes"`
}

// Cache stores JSON-encoded entries under a directory. Safe for
// concurrent use.
type Cache struct {
	dir    string
	maxAge time.Duration

	mu    sync.Mutex
	stats Stats
}

// New opens a cache rooted at dir, creating it if needed.
func New(dir string, maxAge time.Duration) (*Cache, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, maxAge: maxAge}, nil
}

// Get loads the entry for key into out. Returns false on a miss or
// when the entry is stale.
func (c *Cache) Get(key string, out any) bool {
	return c.get(key, "", out)
}

// GetWithSource is Get plus invalidation when the source file has been
// modified since the entry was written.
func (c *Cache) GetWithSource(key, sourcePath string, out any) bool {
	return c.get(key, sourcePath, out)
}

func (c *Cache) get(key, sourcePath string, out any) bool {
	dataPath, metaPath := c.paths(key)

	rawMeta, err := os.ReadFile(metaPath)
	if err != nil {
		c.count(func(s *Stats) { s.Misses++ })
		return false
	}
	var m meta
	if err := json.Unmarshal(rawMeta, &m); err != nil {
		c.count(func(s *Stats) { s.Misses++ })
		return false
	}

	if time.Since(m.CreatedAt) > c.maxAge {
		c.count(func(s *Stats) { s.Invalidations++ })
		return false
	}
	if sourcePath != "" {
		info, err := os.Stat(sourcePath)
		if err == nil && info.ModTime().Unix() > m.SourceMtime {
			c.count(func(s *Stats) { s.Invalidations++ })
			return false
		}
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		c.count(func(s *Stats) { s.Misses++ })
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logging.Warn("Discarding corrupt cache entry", "key", key, "error", err)
		c.count(func(s *Stats) { s.Misses++ })
		return false
	}
	c.count(func(s *Stats) { s.Hits++ })
	return true
}

// Put stores v under key. sourcePath may be empty when the entry has
// no backing file.
func (c *Cache) Put(key string, v any, sourcePath string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m := meta{
		Key:        key,
		CreatedAt:  time.Now(),
		SourcePath: sourcePath,
		SizeBytes:  len(raw),
	}
	if sourcePath != "" {
		if info, err := os.Stat(sourcePath); err == nil {
			m.SourceMtime = info.ModTime().Unix()
		}
	}
	rawMeta, err := json.Marshal(m)
	if err != nil {
		return err
	}

	dataPath, metaPath := c.paths(key)
	if err := os.WriteFile(dataPath, raw, 0o644); err != nil {
		return err
	}
	return os.WriteFile(metaPath, rawMeta, 0o644)
}

// Invalidate removes the entry for key if present.
func (c *Cache) Invalidate(key string) {
	dataPath, metaPath := c.paths(key)
	_ = os.Remove(dataPath)
	_ = os.Remove(metaPath)
}

// Stats returns a snapshot of hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

// paths derives the data and meta file paths for a key. The key is
// sanitized and suffixed with a hash so distinct keys never collide.
func (c *Cache) paths(key string) (string, string) {
	sum := md5.Sum([]byte(key))
	name := sanitize(key) + "-" + hex.EncodeToString(sum[:])[:16]
	base := filepath.Join(c.dir, name)
	return base + ".json", base + ".meta.json"
}

func sanitize(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
