// Package memory provides in-memory implementations of driven ports.
// They hold no files and are used by tests and by callers that need a
// throwaway store.
package memory
