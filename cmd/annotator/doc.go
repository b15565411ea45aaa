package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/render"
)

func (a *app) docCommand() *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "List stored docs, or show the sentences of one doc",
		ArgsUsage: "[docId]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "List only docs with a label containing this string"},
			&cli.BoolFlag{Name: "json", Usage: "Print the doc as JSON"},
			&cli.BoolFlag{Name: "labels", Usage: "List the labels of all docs"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: a.doc,
	}
}

func (a *app) doc(c *cli.Context) error {
	repo, err := a.docRepository(false)
	if err != nil {
		return err
	}

	if c.Bool("labels") {
		labels, err := repo.Labels(c.String("label"))
		if err != nil {
			return err
		}
		for _, l := range labels {
			fmt.Fprintln(a.ui.Out, l)
		}
		return nil
	}

	if c.NArg() == 0 {
		docs, err := repo.List(c.String("label"))
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(a.ui.Out, "%4d %s", d.Id, d.Title)
			if len(d.Labels) > 0 {
				fmt.Fprintf(a.ui.Out, " [%s]", strings.Join(d.Labels, ", "))
			}
			fmt.Fprintln(a.ui.Out)
		}
		return nil
	}

	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid doc id %q", c.Args().First())
	}

	doc, err := repo.Read(id)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return render.NewJSONRenderer(a.ui.Out).RenderDoc(doc)
	}

	r := render.NewRenderer(a.ui.Out)
	r.HasColor = !c.Bool("no-color")
	r.Sentences(doc.Sentences)
	return nil
}
