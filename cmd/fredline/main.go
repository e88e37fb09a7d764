package main

import (
	"os"

	"github.com/ywkim/fredline/cmd/fredline/commands"
)

// main is the entry point for the fredline CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
