package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoPrompts indicates a selection matched nothing.
	ErrNoPrompts = errors.New("no prompts match")

	// ErrStoreUnavailable indicates the prompt store was not configured.
	ErrStoreUnavailable = errors.New("prompt store unavailable")
)

// StoreOpenError reports that the store file could not be opened, created or migrated.
type StoreOpenError struct {
	Path string
	Err  error
}

func (e *StoreOpenError) Error() string {
	return fmt.Sprintf("opening prompt store at %s: %v", e.Path, e.Err)
}

func (e *StoreOpenError) Unwrap() error { return e.Err }

// StoreWriteError reports a failed write. Op names the operation and ID the
// prompt involved, if any.
type StoreWriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreWriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// SearchSyntaxError reports a query the full-text engine could not parse.
type SearchSyntaxError struct {
	Query string
	Err   error
}

func (e *SearchSyntaxError) Error() string {
	return fmt.Sprintf("invalid search query %q: %v", e.Query, e.Err)
}

func (e *SearchSyntaxError) Unwrap() error { return e.Err }

// RegistryFetchError reports a failed remote registry request.
// StatusCode is zero when no response was received.
type RegistryFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RegistryFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching registry %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching registry %s: %v", e.URL, e.Err)
}

func (e *RegistryFetchError) Unwrap() error { return e.Err }

// ImportParseError reports a malformed record in a backup file. Line is 1-based.
type ImportParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ImportParseError) Error() string {
	return fmt.Sprintf("%s:%d: invalid prompt record: %v", e.Path, e.Line, e.Err)
}

func (e *ImportParseError) Unwrap() error { return e.Err }

// CacheIOError reports a failure reading or writing a registry cache artifact.
type CacheIOError struct {
	Path string
	Err  error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("registry cache %s: %v", e.Path, e.Err)
}

func (e *CacheIOError) Unwrap() error { return e.Err }

// IsSearchSyntax checks if the error is a query parse failure.
func IsSearchSyntax(err error) bool {
	var syntaxErr *SearchSyntaxError
	return errors.As(err, &syntaxErr)
}

// IsRegistryFetch checks if the error came from the remote registry.
func IsRegistryFetch(err error) bool {
	var fetchErr *RegistryFetchError
	return errors.As(err, &fetchErr)
}

// ErrorCode maps an error onto the short code used in JSON output.
func ErrorCode(err error) string {
	var (
		openErr   *StoreOpenError
		writeErr  *StoreWriteError
		syntaxErr *SearchSyntaxError
		fetchErr  *RegistryFetchError
		importErr *ImportParseError
		cacheErr  *CacheIOError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoPrompts):
		return "no_prompts"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.As(err, &syntaxErr):
		return "search_error"
	case errors.As(err, &importErr):
		return "import_error"
	case errors.As(err, &fetchErr):
		return "registry_error"
	case errors.As(err, &cacheErr):
		return "cache_error"
	case errors.As(err, &openErr), errors.As(err, &writeErr), errors.Is(err, ErrStoreUnavailable):
		return "database_error"
	default:
		return "error"
	}
}
