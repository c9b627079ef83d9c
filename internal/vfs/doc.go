// Package vfs implements a path-addressed virtual filesystem persisted
// through a key-value store.
//
// Directories are never stored explicitly: a directory is any path that is a
// strict ancestor of a stored file, plus the working directory itself. Every
// mutation updates the in-memory state and persists the entire state object
// before reporting success; a failed persist rolls the mutation back so
// callers never observe an unpersisted success.
package vfs
