// Package http exposes the shell over a REST API: session lifecycle, line
// execution, command discovery and snapshot transfer.
package http
