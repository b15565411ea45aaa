package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X main.BuildTag=... -X main.BuildCommit=..."
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version and commit",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(a.ui.Out, "annotator version %s (commit: %s)\n", BuildTag, BuildCommit)
			return err
		},
	}
}
