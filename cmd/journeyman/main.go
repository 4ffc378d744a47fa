// Command journeyman drives a browser through the journeys declared in YAML
// suite files and reports every step.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and maps the outcome to an exit status. Journey
// failures have already been reported, so only other errors are printed.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errJourneysFailed):
		return 1
	default:
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
}
