// Command climatectl loads the climate datasets from the configured sources
// and queries them without starting the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/climate-explorer/internal/core"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		os.Exit(1)
	}
}
