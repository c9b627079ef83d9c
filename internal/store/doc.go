// Package store provides namespaced key-value persistence for the shell.
//
// A Store is the opaque backing medium the virtual filesystem persists
// through. Two backends are provided:
//   - Memory: quota-bounded in-memory map, the default
//   - Disk: one file per key under a root directory
//
// Writes past the configured capacity fail with ErrCapacity; callers must
// surface that error, never swallow it. Delete is idempotent. List returns
// matching keys with no ordering guarantee.
package store
