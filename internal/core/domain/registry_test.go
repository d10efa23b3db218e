package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMeta_IsStale(t *testing.T) {
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := NewCacheMeta("1", "etag", 3, fetched)
	ttl := 3600 * time.Second

	tests := []struct {
		name    string
		elapsed time.Duration
		stale   bool
	}{
		{"just fetched", 0, false},
		{"below ttl", 3599 * time.Second, false},
		{"exactly ttl", 3600 * time.Second, false},
		{"sub-second past ttl", 3600*time.Second + 900*time.Millisecond, false},
		{"one second past ttl", 3601 * time.Second, true},
		{"clock behind", -time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, meta.IsStale(fetched.Add(tt.elapsed), ttl))
		})
	}
}

func TestCacheMeta_UnparsableIsStale(t *testing.T) {
	meta := CacheMeta{FetchedAt: "yesterday"}
	assert.True(t, meta.IsStale(time.Now(), time.Hour))

	assert.True(t, CacheMeta{}.IsStale(time.Now(), time.Hour))
}

func TestCacheMeta_JSONFields(t *testing.T) {
	meta := NewCacheMeta("", "W/\"abc\"", 8, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	assert.JSONEq(t, `{"etag":"W/\"abc\"","fetched_at":"2026-05-01T00:00:00Z","prompt_count":8}`, string(data))
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "remote", SourceRemote.String())
	assert.Equal(t, "cache", SourceCache.String())
	assert.Equal(t, "bundled", SourceBundled.String())
	assert.Equal(t, "local", SourceLocal.String())

	data, err := json.Marshal(SyncReport{Source: SourceCache})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source":"cache"`)
}

func TestCacheStatus_String(t *testing.T) {
	assert.Equal(t, "missing", CacheMissing.String())
	assert.Equal(t, "fresh", CacheFresh.String())
	assert.Equal(t, "stale", CacheStale.String())
}

func TestBackupMeta_WrapsUnderMetaKey(t *testing.T) {
	meta := BackupMeta{Version: "v", Count: 2, ExportedAt: "2026-01-01T00:00:00Z", SchemaVersion: 2}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_meta":{"version":"v","count":2,"exported_at":"2026-01-01T00:00:00Z","schema_version":2}}`, string(data))

	var decoded BackupMeta
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, meta, decoded)
}
