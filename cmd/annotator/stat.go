package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/stat"
)

func (a *app) statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "Show sentence, token and part-of-speech counts of stored docs",
		ArgsUsage: "[docId...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Value: 10, Usage: "Number of part-of-speech tags to show"},
		},
		Action: a.stat,
	}
}

func (a *app) stat(c *cli.Context) error {
	repo, err := a.docRepository(false)
	if err != nil {
		return err
	}

	var ids []int
	for _, arg := range c.Args().Slice() {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid doc id %q", arg)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		docs, err := repo.List("")
		if err != nil {
			return err
		}
		for _, d := range docs {
			ids = append(ids, d.Id)
		}
	}

	hdl := stat.NewHandler()
	for _, id := range ids {
		doc, err := repo.Read(id)
		if err != nil {
			return fmt.Errorf("doc %d: %w", id, err)
		}
		hdl.Aggregate(doc)
	}

	stats := hdl.Get()
	fmt.Fprintf(a.ui.Out, "Num docs %d, num sentences %d, num tokens %d, num tokens per sentence %d\n",
		len(ids), stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)

	for i, pc := range stats.TopPos() {
		if i >= c.Int("top") {
			break
		}
		fmt.Fprintf(a.ui.Out, "%8s %d\n", pc.Pos, pc.Count)
	}

	return nil
}
