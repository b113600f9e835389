package main

import (
	"os"

	"github.com/caseoracle/caseoracle/pkg/cli"
)

// Build metadata, injected via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate
	os.Exit(cli.Execute())
}
