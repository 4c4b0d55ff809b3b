// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for collators and their workers.
//
// Provides concurrent-safe primitives including:
//   - A metrics registry fed by collators after every drain
//   - Named debug probes (connection snapshots, platform facts)
//
// Collators themselves are single-owner; everything in this package is safe
// to read from any goroutine.
package control
