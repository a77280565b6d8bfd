// Package main provides the entry point for the git-ignore CLI.
package main

import (
	"os"

	"github.com/ignoretools/git-ignore/cmd/git-ignore/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
