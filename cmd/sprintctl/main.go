// Package main is the entry point for sprintctl, the terminal client for
// the skillsprint API.
package main

import (
	"os"

	"github.com/terra-clan/skillsprint/cmd/sprintctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
