// File: cmd/hioload-stream/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import "github.com/momentics/hioload-stream/internal/cli"

func main() {
	cli.Execute()
}
