// Package main provides the eesnip command.
package main

import (
	"os"

	"github.com/leapstack-labs/eesnip/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
