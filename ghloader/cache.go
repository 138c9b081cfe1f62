// Package ghloader builds a graph.DepGraph by scanning a GitHub organization
// or user's repositories for go.mod files, with a filesystem response cache
// to keep repeated runs cheap.
package ghloader

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/google/go-github/v62/github"
)

// CachedListResponse is the on-disk shape for a cached repository listing page.
type CachedListResponse struct {
	Repos    []*github.Repository
	NextPage int
}

// CachedContentResponse is the on-disk shape for a cached go.mod content fetch.
type CachedContentResponse struct {
	Found       bool
	FileContent *github.RepositoryContent
}

// Cache is a directory of sha1-keyed JSON blobs caching GitHub API responses.
type Cache struct {
	dir string
	on  bool
}

// NewCache creates (if enabled) the cache directory under the user's cache
// dir and returns a Cache wrapper. If enabled is false the returned Cache
// is a pass-through: reads always miss and writes are no-ops.
func NewCache(enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{on: false}, nil
	}
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user cache directory: %w", err)
	}
	dir := filepath.Join(userCacheDir, "depquery_cache")
	log.LogVf("using cache directory: %s", dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir, on: true}, nil
}

// Clear removes the cache directory entirely and recreates it empty.
func (c *Cache) Clear() error {
	if !c.on {
		return errors.New("cache is disabled, nothing to clear")
	}
	log.Infof("clearing cache directory: %s", c.dir)
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("failed to clear cache directory %s: %w", c.dir, err)
	}
	return os.MkdirAll(c.dir, 0o755)
}

func (c *Cache) key(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		io.WriteString(h, p)
		io.WriteString(h, "|")
	}
	return filepath.Join(c.dir, fmt.Sprintf("%x", h.Sum(nil))+".json")
}

func (c *Cache) read(key string, target interface{}) (bool, error) {
	if !c.on {
		return false, nil
	}
	data, err := os.ReadFile(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error reading cache file %s: %w", key, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		log.Warnf("error unmarshaling cache file %s, ignoring cache: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (c *Cache) write(key string, data interface{}) error {
	if !c.on {
		return nil
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache key %s: %w", key, err)
	}
	if err := os.WriteFile(key, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", key, err)
	}
	log.LogVf("cache write: %s", key)
	return nil
}
