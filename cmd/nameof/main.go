// Package main provides the nameof command.
package main

import (
	"os"

	"github.com/leapstack-labs/nameof/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
