package main

import (
	"github.com/drippinrizz/xano-db-visualizer/cmd"
)

// main is the entry point for the xano-viz CLI.
func main() {
	// Execute the root command defined in the cmd package. This handles all
	// command-line parsing, configuration, and execution.
	cmd.Execute()
}
