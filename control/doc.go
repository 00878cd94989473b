// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for streams.
//
// Provides:
//   - YAML file config with HIOLOAD_STREAM_* environment overrides
//   - Prometheus collectors that plug into client.Config as an Observer
//   - Probe registration and state export
package control
