// Command gportal is a command line client for the grievance portal
// backend: citizen filing and tracking, officer dashboards, reminder
// sweeps and digests.
package main

import (
	stderrors "errors"
	"fmt"
	"os"
)

func main() {
	if err := run(&app{out: os.Stdout, errOut: os.Stderr}, os.Args[1:]); err != nil {
		if !stderrors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
