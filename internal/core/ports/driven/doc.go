// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PromptStore: Prompt persistence, listing and ranked search (SQLite FTS5)
//   - BundledSource: The prompt set compiled into the binary
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RegistryClient: Remote registry access. Without it, refresh reports an error
//     and loads fall back to the cache or the bundled set.
//   - RegistryCache: On-disk registry snapshot. Without it, every load is bundled.
//   - BundleSource: Prompt bundle definitions. Without it, no bundles are listed.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
