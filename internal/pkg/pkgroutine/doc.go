// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and turns
// panics into collected errors so that background work does not crash the
// process or disappear silently.
package pkgroutine
