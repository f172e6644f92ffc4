// Command elements runs element scenarios against the demo element types.
package main

import (
	"os"

	"github.com/go-drift/elements/cmd/elements/cmd"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
