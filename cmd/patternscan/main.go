// patternscan analyzes repository code to extract recurring patterns for
// the RefactorForge recommendation engine.
package main

import (
	"os"

	"github.com/refactorforge/patternscan/cmd/patternscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
