// Package main provides the entry point for the treescout CLI.
package main

import (
	"os"

	"github.com/treescout/treescout/cmd/treescout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
