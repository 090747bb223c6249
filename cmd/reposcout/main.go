// Command reposcout finds GitHub repositories that are missing from a
// curated YAML dataset and opens them for review.
package main

import (
	"os"

	"github.com/custodia-labs/reposcout/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
