// Package api
// Author: momentics
//
// Live introspection of collators for diagnostics.

package api

// Debug exposes named probes over runtime state.
type Debug interface {
	// DumpState runs every probe and returns their output by name.
	DumpState() map[string]any

	// RegisterProbe registers or replaces a probe.
	RegisterProbe(name string, fn func() any)

	// UnregisterProbe removes a probe, e.g. when its collator closes.
	UnregisterProbe(name string)
}
