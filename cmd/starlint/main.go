// Package main provides the starlint command-line interface.
package main

import (
	"os"

	"github.com/leapstack-labs/starlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
