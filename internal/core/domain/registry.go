package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Registry defaults.
const (
	DefaultRegistryURL = "https://jeffreysprompts.com/api/prompts"
	DefaultCacheTTL    = 3600 * time.Second
	DefaultTimeout     = 2000 * time.Millisecond
)

// Well-known store metadata keys.
const (
	MetaSchemaVersion = "schema_version"
	MetaLastSync      = "last_sync"
	MetaDataVersion   = "data_version"
)

// Source identifies where a set of prompts came from.
type Source int

// Prompt sources.
const (
	SourceRemote Source = iota
	SourceCache
	SourceBundled
	SourceLocal
)

// String returns the string representation.
func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	case SourceBundled:
		return "bundled"
	case SourceLocal:
		return "local"
	default:
		return "unknown"
	}
}

// MarshalText encodes the source as its lowercase name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CacheStatus describes the on-disk registry snapshot.
type CacheStatus int

// Cache states.
const (
	CacheMissing CacheStatus = iota
	CacheFresh
	CacheStale
)

// String returns the string representation.
func (c CacheStatus) String() string {
	switch c {
	case CacheMissing:
		return "missing"
	case CacheFresh:
		return "fresh"
	case CacheStale:
		return "stale"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its lowercase name.
func (c CacheStatus) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CacheMeta is the sidecar stored next to the registry snapshot.
type CacheMeta struct {
	Version     string `json:"version,omitempty"`
	ETag        string `json:"etag,omitempty"`
	FetchedAt   string `json:"fetched_at"`
	PromptCount int    `json:"prompt_count"`
}

// NewCacheMeta stamps metadata for a snapshot fetched at now.
func NewCacheMeta(version, etag string, count int, now time.Time) CacheMeta {
	return CacheMeta{
		Version:     version,
		ETag:        etag,
		FetchedAt:   now.UTC().Format(time.RFC3339),
		PromptCount: count,
	}
}

// FetchedTime parses FetchedAt.
func (m CacheMeta) FetchedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, m.FetchedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing fetched_at %q: %w", m.FetchedAt, err)
	}
	return t, nil
}

// IsStale reports whether more than ttl whole seconds have passed since
// FetchedAt. Elapsed time equal to ttl is fresh. A missing or unparsable
// timestamp counts as stale.
func (m CacheMeta) IsStale(now time.Time, ttl time.Duration) bool {
	fetched, err := m.FetchedTime()
	if err != nil {
		return true
	}
	elapsed := int64(now.Sub(fetched) / time.Second)
	return elapsed > int64(ttl/time.Second)
}

// LoadResult is the outcome of loading or refreshing the registry.
type LoadResult struct {
	Prompts []Prompt
	Source  Source
	Stale   bool

	// Warning carries a non-fatal error, such as a failed fetch that was
	// answered from the cache or the bundled set.
	Warning error
}

// SyncReport summarises a refresh that was applied to the store.
type SyncReport struct {
	Source      Source `json:"source"`
	Stale       bool   `json:"stale"`
	PromptCount int    `json:"prompt_count"`
	SyncedAt    string `json:"synced_at"`
	Warning     string `json:"warning,omitempty"`
}

// StatusReport describes the local store and registry cache.
type StatusReport struct {
	DatabasePath   string      `json:"database_path"`
	DatabaseExists bool        `json:"database_exists"`
	PromptCount    int         `json:"prompt_count"`
	SchemaVersion  string      `json:"schema_version,omitempty"`
	LastSync       string      `json:"last_sync,omitempty"`
	DataVersion    string      `json:"data_version,omitempty"`
	RegistryURL    string      `json:"registry_url"`
	CachePath      string      `json:"cache_path"`
	Cache          CacheStatus `json:"cache"`
	CacheMeta      *CacheMeta  `json:"cache_meta,omitempty"`
}

// BackupMeta is the header line of a backup file.
type BackupMeta struct {
	Version       string `json:"version"`
	Count         int    `json:"count"`
	ExportedAt    string `json:"exported_at"`
	SchemaVersion int    `json:"schema_version"`
}

// MarshalJSON wraps the header under the reserved "_meta" key.
func (m BackupMeta) MarshalJSON() ([]byte, error) {
	type plain BackupMeta
	return json.Marshal(struct {
		Meta plain `json:"_meta"`
	}{plain(m)})
}

// UnmarshalJSON reads a header wrapped under "_meta".
func (m *BackupMeta) UnmarshalJSON(data []byte) error {
	type plain BackupMeta
	var wrapper struct {
		Meta plain `json:"_meta"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	*m = BackupMeta(wrapper.Meta)
	return nil
}
