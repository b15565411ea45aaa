package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	sent "github.com/revelaction/annotator/sentence"
)

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Annotate text files matching the glob patterns and store them as docs",
		ArgsUsage: "<glob>...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "Label added to every imported doc"},
			&cli.BoolFlag{Name: "no-progress", Usage: "Do not show the progress bar"},
		},
		Action: a.importDocs,
	}
}

func (a *app) importDocs(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one glob pattern is required")
	}

	files, err := matchFiles(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %s", strings.Join(c.Args().Slice(), " "))
	}

	repo, err := a.docRepository(true)
	if err != nil {
		return err
	}

	ann, err := a.newAnnotator(c.Context)
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	if !c.Bool("no-progress") {
		progress := uiprogress.New()
		progress.SetOut(a.ui.Err)
		progress.Start()
		defer progress.Stop()

		bar = progress.AddBar(len(files))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	labels := c.StringSlice("label")
	count := 0
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f, err)
		}

		sentences, err := ann.Annotate(c.Context, composed(string(b)))
		if err != nil {
			return fmt.Errorf("failed to annotate %s: %w", f, err)
		}

		title := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if _, err := repo.Write(sent.Doc{Title: title, Labels: labels, Sentences: sentences}); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", title, err)
		}
		a.logger.Debug("imported", "file", f, "sentences", len(sentences))

		count++
		if bar != nil {
			bar.Incr()
		}
	}

	fmt.Fprintf(a.ui.Out, "Successfully imported %d docs to %s\n", count, a.cfg.Storage.DocPath)
	return nil
}

// matchFiles expands the patterns to regular files, without duplicates, in
// pattern order.
func matchFiles(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}
