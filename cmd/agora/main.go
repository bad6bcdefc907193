// cmd/agora/main.go
package main

import (
	cmd "github.com/mwiater/agora/internal/cli"
)

// main starts the agora CLI application by delegating to the cobra root
// command defined in the agora package.
func main() {
	cmd.Execute()
}
