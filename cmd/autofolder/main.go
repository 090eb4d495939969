// Package main is the entry point for the autofolder CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/autofolder/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
