// Package main is the entry point for the galleryfetch CLI.
package main

import (
	"os"

	"github.com/jmylchreest/galleryfetch/cmd/galleryfetch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
