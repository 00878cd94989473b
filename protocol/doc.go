// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the client half of the WebSocket wire protocol used by
// hioload-stream to tunnel a byte stream over TCP.
//
// Includes:
//   - ws:// connection string parsing
//   - Literal HTTP Upgrade request and substring-based response check
//   - Masked frame encoding with a fixed mask key
//   - Window-based frame decoding that tolerates partial frames
//
// Extensions, compression, ping/pong and opcode validation are out of scope.
package protocol
