package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/annotator/render"
	sent "github.com/revelaction/annotator/sentence"
	"github.com/revelaction/annotator/storage"
)

const (
	completionThreshold = 1

	// lemmaPrefix is the Character in the prompt that prefixes a lemma query
	lemmaPrefix = "/"

	// commandPrefix prefixes the REPL commands
	commandPrefix = ":"

	// Limit candidates per query to avoid hang
	candidateLimit = 2000
	batchSize      = 500
)

var commands = []prompt.Suggest{
	{Text: ":format", Description: "next output format"},
	{Text: ":prefix", Description: "toggle sentence prefix"},
	{Text: ":lemmas", Description: "lemma counts of the session"},
	{Text: "quit", Description: "exit"},
}

// Annotator annotates a text into sentences.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]sent.Sentence, error)
}

type Handler struct {
	Annotator Annotator

	// DocRepo is optional. Without it lemma queries are rejected.
	DocRepo storage.DocReader

	Renderer *render.Renderer
}

func NewHandler(a Annotator, dr storage.DocReader, r *render.Renderer) *Handler {
	return &Handler{
		Annotator: a,
		DocRepo:   dr,
		Renderer:  r,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Renderer.W, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, /lemma: search docs, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("annotator"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Renderer.W, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Renderer.W, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if strings.TrimSpace(in) != "" {
			history = append(history, in)
		}

		quit, err := h.Eval(ctx, in)
		if err != nil {
			fmt.Fprintf(h.Renderer.W, "❌ %s\n", err)
		}
		if quit {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Eval runs one line of input: a command, a lemma query or a text to
// annotate. It reports whether the session should end.
func (h *Handler) Eval(ctx context.Context, in string) (bool, error) {
	in = strings.TrimSpace(in)

	switch {
	case in == "":
		return false, nil
	case in == "quit":
		return true, nil
	case strings.HasPrefix(in, commandPrefix):
		return false, h.command(in)
	case strings.HasPrefix(in, lemmaPrefix):
		return false, h.Query(strings.Fields(strings.TrimPrefix(in, lemmaPrefix)))
	}

	sentences, err := h.Annotator.Annotate(ctx, in)
	if err != nil {
		return false, err
	}

	h.Renderer.Sentences(sentences)
	return false, nil
}

func (h *Handler) command(in string) error {
	switch in {
	case ":format":
		h.Renderer.NextFormat()
		fmt.Fprintln(h.Renderer.W, "Format set to: "+h.Renderer.Format)
	case ":prefix":
		h.Renderer.NextPrefix()
		fmt.Fprintln(h.Renderer.W, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
	case ":lemmas":
		h.Renderer.Aggregate()
	default:
		return fmt.Errorf("unknown command %s", in)
	}
	return nil
}

// Query renders the stored sentences containing all lemmas.
func (h *Handler) Query(lemmas []string) error {
	if h.DocRepo == nil {
		return errors.New("no doc repository")
	}

	if len(lemmas) == 0 {
		return errors.New("no lemmas given")
	}

	cursor := storage.Cursor(0)
	fetched := 0
	for {
		newCursor, err := h.DocRepo.FindCandidates(lemmas, cursor, batchSize, func(r storage.SentenceResult) error {
			fetched++
			prefix := ""
			if h.Renderer.HasPrefix {
				prefix = fmt.Sprintf("[%20s %4d:%3d] ✍  ", title(r.DocTitle), r.DocID, r.Index)
			}
			h.Renderer.Sentence(r.Tokens, prefix)
			return nil
		})
		if err != nil {
			return fmt.Errorf("fetching candidates: %w", err)
		}

		if cursor == newCursor {
			break // No more progress
		}

		if fetched >= candidateLimit {
			break
		}
		cursor = newCursor
	}

	if fetched == 0 {
		fmt.Fprintf(h.Renderer.W, "no sentences for %s\n", strings.Join(lemmas, " "))
	}

	return nil
}

// title truncates t to 20 runes.
func title(t string) string {
	r := []rune(t)
	if len(r) <= 20 {
		return t
	}
	return string(r[:20])
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {

		s := []prompt.Suggest{}
		befCursor := in.TextBeforeCursor()

		if len(befCursor) < completionThreshold {
			return s
		}

		if strings.HasPrefix(befCursor, commandPrefix) || strings.HasPrefix("quit", befCursor) {
			return prompt.FilterHasPrefix(commands, befCursor, false)
		}

		if !strings.HasPrefix(befCursor, lemmaPrefix) {
			return s
		}

		word := strings.TrimPrefix(in.GetWordBeforeCursor(), lemmaPrefix)
		for _, l := range h.Renderer.Lemmas() {
			if strings.HasPrefix(l, word) {
				s = append(s, prompt.Suggest{Text: l, Description: "lemma"})
			}
		}

		return s
	}
}
