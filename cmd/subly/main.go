package main

import (
	"fmt"
	"os"

	"github.com/dshills/subly-core/internal/cli"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: version, BuildTime: buildTime})
	if err := cmd.Execute(); err != nil {
		// Stdout belongs to the command bridge
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
