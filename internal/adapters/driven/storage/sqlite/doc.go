// Package sqlite provides the SQLite-backed implementation of driven.PromptStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Full-text ranking uses the FTS5 extension
// compiled into that driver.
//
// # Schema
//
// The database schema is managed by goose through versioned migrations embedded
// from the migrations/ directory. Each file holds an Up and a Down section.
// The prompts_fts virtual table is a standalone index: the store rewrites a
// prompt's entry inside the same transaction that rewrites the prompt.
//
// # Data Location
//
// The caller supplies the file path; the CLI uses <cache dir>/jfp/jfp.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Each pooled connection runs in WAL
// mode with a 5 second busy timeout and foreign keys enforced, so separate CLI
// processes can read while one writes.
package sqlite
