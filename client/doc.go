// Package client provides the WebSocket-backed implementation of api.Stream.
//
// Core design:
//   - One TCP connection per Stream, upgraded with a fixed literal handshake
//   - A receiver goroutine per connection, started by Open and joined by Close
//   - Inbound payload bytes land in a bounded queue that evicts its oldest
//     bytes on overflow; Read and Available never block
//   - Outbound writes are framed and sent synchronously on the caller's goroutine
//   - Runtime I/O failures flip the stream to closed instead of panicking;
//     callers observe them through IsOpen, Write and Available
package client
