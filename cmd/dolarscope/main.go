package main

import (
	"os"

	"github.com/dolarscope/backend/cmd/dolarscope/commands"
)

// main is the entry point for the DolarScope CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
