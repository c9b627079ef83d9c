// Package session manages independent shells. Each session owns a
// filesystem namespace in the shared store plus an executor over the shared
// command registry, so multiple isolated shells coexist in one process.
package session
