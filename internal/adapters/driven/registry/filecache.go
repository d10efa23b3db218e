package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/fsutil"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// Ensure FileCache implements the interface.
var _ driven.RegistryCache = (*FileCache)(nil)

// FileCache keeps the registry snapshot as a JSON array with a JSON sidecar
// holding its metadata. Both files are replaced by rename.
type FileCache struct {
	path     string
	metaPath string
}

// NewFileCache creates a cache over the given snapshot and sidecar paths.
func NewFileCache(path, metaPath string) *FileCache {
	return &FileCache{path: path, metaPath: metaPath}
}

// Path returns the snapshot file path.
func (c *FileCache) Path() string {
	return c.path
}

// MetaPath returns the sidecar file path.
func (c *FileCache) MetaPath() string {
	return c.metaPath
}

// Exists reports whether the snapshot file is present.
func (c *FileCache) Exists() bool {
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

// Load reads and decodes the snapshot.
func (c *FileCache) Load() ([]domain.Prompt, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, &domain.CacheIOError{Path: c.path, Err: err}
	}
	var prompts []domain.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, &domain.CacheIOError{Path: c.path, Err: fmt.Errorf("decoding snapshot: %w", err)}
	}
	return prompts, nil
}

// Meta reads the sidecar. A missing or corrupt sidecar reports false.
func (c *FileCache) Meta() (domain.CacheMeta, bool) {
	data, err := os.ReadFile(c.metaPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Debug("reading cache meta %s: %v", c.metaPath, err)
		}
		return domain.CacheMeta{}, false
	}
	var meta domain.CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		logger.Debug("decoding cache meta %s: %v", c.metaPath, err)
		return domain.CacheMeta{}, false
	}
	return meta, true
}

// Save replaces the snapshot and then the sidecar. PromptCount is taken from
// the prompts written.
func (c *FileCache) Save(prompts []domain.Prompt, meta domain.CacheMeta) error {
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	if err := writeJSON(c.path, prompts); err != nil {
		return err
	}
	meta.PromptCount = len(prompts)
	return writeJSON(c.metaPath, meta)
}

// Touch restamps the sidecar's fetched_at, leaving the snapshot untouched.
// A missing sidecar is rebuilt from the snapshot.
func (c *FileCache) Touch(fetchedAt string) error {
	meta, ok := c.Meta()
	if !ok {
		prompts, err := c.Load()
		if err != nil {
			return err
		}
		meta = domain.CacheMeta{PromptCount: len(prompts)}
	}
	if fetchedAt == "" {
		fetchedAt = time.Now().UTC().Format(time.RFC3339)
	}
	meta.FetchedAt = fetchedAt
	return writeJSON(c.metaPath, meta)
}

func writeJSON(path string, v any) error {
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
	if err != nil {
		return &domain.CacheIOError{Path: path, Err: err}
	}
	return nil
}
