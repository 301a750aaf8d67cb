package main

import (
	"os"

	"github.com/tunnelcheck/tunnelcheck/cmd"
)

// set by the release build via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
