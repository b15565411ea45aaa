package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/query"
	"github.com/revelaction/annotator/render"
)

func (a *app) lemmaCommand() *cli.Command {
	return &cli.Command{
		Name:      "lemma",
		Usage:     "Show the stored sentences containing all lemmas",
		ArgsUsage: "<lemma>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: a.lemma,
	}
}

func (a *app) lemma(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one lemma is required")
	}

	repo, err := a.docRepository(false)
	if err != nil {
		return err
	}

	r := render.NewRenderer(a.ui.Out)
	r.HasColor = !c.Bool("no-color")

	return query.NewHandler(nil, repo, r).Query(c.Args().Slice())
}
