package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
)

func (a *app) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every stored doc as a JSON file into a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "Destination directory"},
			&cli.BoolFlag{Name: "no-progress", Usage: "Do not show the progress bar"},
		},
		Action: a.export,
	}
}

func (a *app) export(c *cli.Context) error {
	src, err := a.docRepository(false)
	if err != nil {
		return err
	}

	dir := c.String("to")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	docs, err := src.List("")
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	if !c.Bool("no-progress") {
		progress := uiprogress.New()
		progress.SetOut(a.ui.Err)
		progress.Start()
		defer progress.Stop()

		bar = progress.AddBar(len(docs))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	for _, d := range docs {
		doc, err := src.Read(d.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %d: %w", d.Id, err)
		}

		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		name := fmt.Sprintf("%04d-%s.json", doc.Id, fileName(doc.Title))
		if err := os.WriteFile(filepath.Join(dir, name), b, 0644); err != nil {
			return fmt.Errorf("failed to write doc %d: %w", d.Id, err)
		}
		if bar != nil {
			bar.Incr()
		}
	}

	fmt.Fprintf(a.ui.Out, "Successfully exported %d docs to %s\n", len(docs), dir)
	return nil
}

// fileName replaces characters unsafe in file names.
func fileName(title string) string {
	if title == "" {
		return "untitled"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, title)
}
