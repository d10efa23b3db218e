// Package migrations embeds SQL migration files for the SQLite store.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
// Files follow goose naming: NNNNN_description.sql with Up and Down sections.
//
//go:embed *.sql
var FS embed.FS
