// Package server assembles the application: store, registry, sessions,
// middleware, REST routes and the WebSocket shell.
package server
