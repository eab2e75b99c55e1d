// Package probe holds the low-level primitives the audit checks build on.
//
// A Prober issues bounded, read-only HTTP requests (GET, HEAD, POST) against
// the audited site and classifies transport failures into timeout, refused
// and unreachable errors. Every request builds its own client with keep-alives
// disabled, so nothing outlives a single check invocation.
//
// The package also parses PHP memory limit shorthand ("256M", "-1"), formats
// byte counts for report messages, normalizes site URLs and reports whether a
// response was served over TLS.
package probe
