// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket plumbing for the stream client: dialing, deadline-bounded reads and
// writes, and a readiness wait on the raw descriptor. Platform-specific code
// is separated by build tags (unix / everything else).

package transport
