package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/query"
	"github.com/revelaction/annotator/render"
	"github.com/revelaction/annotator/storage"
)

func (a *app) replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Annotate lines interactively; /lemma queries the doc path when set",
		Action: func(c *cli.Context) error {
			ann, err := a.newAnnotator(c.Context)
			if err != nil {
				return err
			}

			var repo storage.DocReader
			if a.cfg.Storage.DocPath != "" {
				repo, err = a.docRepository(false)
				if err != nil {
					return err
				}
			}

			r := render.NewRenderer(a.ui.Out)
			r.HasColor = true
			return query.NewHandler(ann, repo, r).Run(c.Context)
		},
	}
}
