// Command server runs the WebShell HTTP and WebSocket service.
package main
