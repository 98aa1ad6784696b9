// Command nutrienergia estimates feed ingredient energy values and scales
// nutrient requirement tables.
package main

import (
	"os"

	"github.com/uywa/nutrienergia/internal/cli"
	"github.com/uywa/nutrienergia/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the outcome to an exit code.
// Separated from main so tests can exercise it.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}
