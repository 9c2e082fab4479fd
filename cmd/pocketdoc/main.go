// This is the main entry point for the pocketdoc CLI.
// Build with: go build -o bin/pocketdoc ./cmd/pocketdoc
// Usage: pocketdoc <command> [options]
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
