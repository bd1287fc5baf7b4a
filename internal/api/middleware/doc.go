// Package middleware contains the HTTP middleware shared by all routes:
// trace ID propagation, per-request logging and panic recovery.
package middleware
