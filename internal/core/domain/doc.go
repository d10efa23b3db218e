// Package domain defines the core business entities for jfp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Prompt: A template document with placeholder variables
//   - Variable: A named placeholder and its input kind
//   - Bundle: A named, ordered selection of prompts
//   - CacheMeta: Bookkeeping for the on-disk registry snapshot
//   - ConfigValue: A typed user setting
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
