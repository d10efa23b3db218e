package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoPrompts", ErrNoPrompts},
		{"ErrStoreUnavailable", ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  error
	}{
		{"StoreOpenError", &StoreOpenError{Path: "/tmp/jfp.db", Err: cause}},
		{"StoreWriteError", &StoreWriteError{Op: "upsert prompt", ID: "debug", Err: cause}},
		{"SearchSyntaxError", &SearchSyntaxError{Query: `"x`, Err: cause}},
		{"RegistryFetchError", &RegistryFetchError{URL: "http://x", Err: cause}},
		{"ImportParseError", &ImportParseError{Path: "b.jsonl", Line: 3, Err: cause}},
		{"CacheIOError", &CacheIOError{Path: "registry.json", Err: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("command: %w", tt.err)
			assert.ErrorIs(t, wrapped, cause)
			assert.Contains(t, tt.err.Error(), "disk full")
		})
	}
}

func TestImportParseError_IncludesLine(t *testing.T) {
	err := &ImportParseError{Path: "backup.jsonl", Line: 7, Err: errors.New("bad json")}
	assert.Equal(t, "backup.jsonl:7: invalid prompt record: bad json", err.Error())
}

func TestRegistryFetchError_Status(t *testing.T) {
	withStatus := &RegistryFetchError{URL: "http://r", StatusCode: 503, Err: errors.New("unavailable")}
	assert.Contains(t, withStatus.Error(), "status 503")

	noStatus := &RegistryFetchError{URL: "http://r", Err: errors.New("timeout")}
	assert.NotContains(t, noStatus.Error(), "status")
}

func TestIsHelpers(t *testing.T) {
	syntax := fmt.Errorf("search: %w", &SearchSyntaxError{Query: "q", Err: errors.New("x")})
	fetch := fmt.Errorf("refresh: %w", &RegistryFetchError{URL: "u", Err: errors.New("x")})

	assert.True(t, IsSearchSyntax(syntax))
	assert.False(t, IsSearchSyntax(fetch))
	assert.True(t, IsRegistryFetch(fetch))
	assert.False(t, IsRegistryFetch(syntax))
}

func TestErrorCode(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("get: %w", ErrNotFound), "not_found"},
		{ErrNoPrompts, "no_prompts"},
		{fmt.Errorf("%w: limit", ErrInvalidInput), "invalid_input"},
		{&SearchSyntaxError{Err: cause}, "search_error"},
		{&ImportParseError{Err: cause}, "import_error"},
		{&RegistryFetchError{Err: cause}, "registry_error"},
		{&CacheIOError{Err: cause}, "cache_error"},
		{&StoreOpenError{Err: cause}, "database_error"},
		{&StoreWriteError{Op: "upsert", Err: cause}, "database_error"},
		{ErrStoreUnavailable, "database_error"},
		{cause, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}
