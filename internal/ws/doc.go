// Package ws provides the interactive WebSocket shell: one connection talks
// to one session, executing lines and streaming results back as JSON
// messages.
package ws
