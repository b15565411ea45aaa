package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/render"
)

func (a *app) sentenceCommand() *cli.Command {
	return &cli.Command{
		Name:      "sentence",
		Usage:     "Show the tokens of one stored sentence",
		ArgsUsage: "<docId> <sentId>",
		Action:    a.sentence,
	}
}

func (a *app) sentence(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("sentence requires <docId> <sentId>")
	}
	docId, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid doc id %q", c.Args().Get(0))
	}
	sentId, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid sentence id %q", c.Args().Get(1))
	}

	repo, err := a.docRepository(false)
	if err != nil {
		return err
	}

	doc, err := repo.Read(docId)
	if err != nil {
		return err
	}

	if sentId < 0 || sentId >= len(doc.Sentences) {
		return fmt.Errorf("sentence index %d out of bounds (doc has %d sentences)", sentId, len(doc.Sentences))
	}

	r := render.NewRenderer(a.ui.Out)
	r.Format = "table"
	r.Sentence(doc.Sentences[sentId], "")
	return nil
}
