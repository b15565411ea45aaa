package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/revelaction/annotator/render"
	sent "github.com/revelaction/annotator/sentence"
)

const formatJSON = "json"

func (a *app) annotateCommand() *cli.Command {
	return &cli.Command{
		Name:      "annotate",
		Usage:     "Annotate text from the arguments or stdin",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + strings.Join(append(render.SupportedFormats(), formatJSON), ", "),
				Value:   render.Defaultformat,
			},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
			&cli.BoolFlag{Name: "no-prefix", Usage: "Do not print the sentence index"},
			&cli.BoolFlag{Name: "store", Aliases: []string{"s"}, Usage: "Store the result as a doc in the doc path"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title of the stored doc"},
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "Label of the stored doc"},
		},
		Action: a.annotate,
	}
}

func (a *app) annotate(c *cli.Context) error {
	format := c.String("format")
	if format != formatJSON && !isSupportedFormat(format) {
		return fmt.Errorf("unsupported format %q", format)
	}

	text, err := inputText(c.Args().Slice(), a.ui.In)
	if err != nil {
		return err
	}

	ann, err := a.newAnnotator(c.Context)
	if err != nil {
		return err
	}

	sentences, err := ann.Annotate(c.Context, text)
	if err != nil {
		return err
	}

	if c.Bool("store") {
		repo, err := a.docRepository(true)
		if err != nil {
			return err
		}
		doc := sent.Doc{Title: c.String("title"), Labels: c.StringSlice("label"), Sentences: sentences}
		if doc.Title == "" {
			doc.Title = firstWords(sentences, 8)
		}
		id, err := repo.Write(doc)
		if err != nil {
			return fmt.Errorf("failed to store doc: %w", err)
		}
		a.logger.Info("stored doc", "id", id, "title", doc.Title, "sentences", len(sentences))
	}

	if format == formatJSON {
		return render.NewJSONRenderer(a.ui.Out).Render(sentences)
	}

	r := render.NewRenderer(a.ui.Out)
	r.Format = format
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = !c.Bool("no-prefix")
	r.Sentences(sentences)
	return nil
}

// inputText joins the arguments, or reads stdin when there are none.
func inputText(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return composed(strings.Join(args, " ")), nil
	}
	if in == nil {
		return "", errors.New("no text given")
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return composed(string(b)), nil
}

// composed returns text in Unicode NFC, so that decomposed accents reach the
// engine as single characters.
func composed(text string) string {
	return norm.NFC.String(text)
}

func isSupportedFormat(f string) bool {
	for _, s := range render.SupportedFormats() {
		if s == f {
			return true
		}
	}
	return false
}

// firstWords returns up to n words of the first sentence.
func firstWords(sentences []sent.Sentence, n int) string {
	if len(sentences) == 0 {
		return ""
	}
	words := strings.Fields(sentences[0].Text())
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
