// Package registry provides the remote registry client, the on-disk
// registry snapshot and the prompt set bundled into the binary.
package registry
