// Package api
// Author: momentics
//
// Live debug support for long-running streams.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of registered probes.
	DumpState() map[string]any

	// RegisterProbe dynamically registers a named probe.
	RegisterProbe(name string, fn func() any)
}
