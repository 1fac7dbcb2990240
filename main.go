// The main package for the firedl executable.
package main

import (
	"github.com/firedl/firedl/cmd"
)

// main defers all execution to the Cobra CLI layer.
func main() {
	cmd.Execute()
}
