// Package main provides the CLI entry point for bulkrename.
package main

import (
	"os"

	"bulkrename/cmd/bulkrename/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
