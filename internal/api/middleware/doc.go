// Package middleware provides HTTP middleware: CORS and rate limiting.
package middleware
