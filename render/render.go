package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	sent "github.com/revelaction/annotator/sentence"
)

const (
	Defaultformat = "text"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

func SupportedFormats() []string {
	return []string{"text", "table", "lemma", "pos"}
}

// noSpaceBefore and noSpaceAfter drive the detokenization of the text format.
var (
	noSpaceBefore = map[string]bool{")": true, "]": true, "}": true, ".": true, ",": true, ";": true, ":": true, "!": true, "?": true, "'s": true, "n't": true, "%": true}
	noSpaceAfter  = map[string]bool{"(": true, "[": true, "{": true, "$": true}
)

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the sentence
	//
	// text: the words of the sentence, detokenized
	// table: one token per line: word, lemma, pos and ne
	// lemma: the lemmas of the sentence
	// pos: word/POS pairs
	Format string

	// Counts lemma occurrences across rendered sentences, see Aggregate
	lemmaCount map[string]int
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		W:          w,
		Format:     Defaultformat,
		HasPrefix:  true,
		lemmaCount: map[string]int{},
	}
}

// Sentences renders the sentences of an annotation result. The prefix, when
// enabled, is the sentence index.
func (r *Renderer) Sentences(sentences []sent.Sentence) {
	for i, s := range sentences {
		prefix := ""
		if r.HasPrefix {
			prefix = fmt.Sprintf("✍  %d ", i)
		}
		r.Sentence(s, prefix)
	}
}

// Sentence renders a single sentence with the given prefix.
func (r *Renderer) Sentence(s sent.Sentence, prefix string) {
	for _, t := range s {
		if l := strings.ToLower(t.Lemma()); l != "" {
			r.lemmaCount[l]++
		}
	}

	switch r.Format {
	case "table":
		if prefix != "" {
			fmt.Fprintf(r.W, "%s\n", strings.TrimSpace(prefix))
		}
		r.table(s)
	case "lemma":
		fmt.Fprintf(r.W, "%s%s\n", prefix, r.lemma(s))
	case "pos":
		fmt.Fprintf(r.W, "%s%s\n", prefix, r.pos(s))
	default:
		fmt.Fprintf(r.W, "%s%s\n", prefix, r.SentenceString(s))
	}
}

// SentenceString returns the words of s joined as running text: no space
// before closing brackets and punctuation, none after opening brackets.
func (r *Renderer) SentenceString(s sent.Sentence) string {
	var str strings.Builder
	for i, token := range s {
		if i > 0 && !noSpaceBefore[token.Word()] && !noSpaceAfter[s[i-1].Word()] {
			str.WriteString(" ")
		}
		str.WriteString(r.colorToken(token))
	}

	return strings.ReplaceAll(str.String(), "\n", " ")
}

func (r *Renderer) table(s sent.Sentence) {
	for _, token := range s {
		fmt.Fprintf(r.W, "%20q %20q %8s %8s\n", token.Word(), token.Lemma(), token.Pos(), token.NE())
	}
}

// lemma renders the lemmas of the sentence
func (r *Renderer) lemma(s sent.Sentence) string {
	lemmas := make([]string, 0, len(s))
	for _, t := range s {
		lemmas = append(lemmas, t.Lemma())
	}

	return strings.Join(lemmas, " ")
}

func (r *Renderer) pos(s sent.Sentence) string {
	pairs := make([]string, 0, len(s))
	for _, t := range s {
		pairs = append(pairs, t.Word()+"/"+t.Pos())
	}

	return strings.Join(pairs, " ")
}

// colorToken colors nouns, verbs and adjectives by their PTB or UD tag.
func (r *Renderer) colorToken(token sent.Token) string {
	if !r.HasColor {
		return token.Word()
	}

	pos := token.Pos()
	switch {
	case strings.HasPrefix(pos, "NN"), pos == "NOUN", pos == "PROPN":
		return Green256 + token.Word() + Off
	case strings.HasPrefix(pos, "VB"), pos == "VERB":
		return Yellow256 + token.Word() + Off
	case strings.HasPrefix(pos, "JJ"), pos == "ADJ":
		return Purple + token.Word() + Off
	}

	return token.Word()
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			return
		}
	}

	r.Format = Defaultformat
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}

// Lemmas returns the lemmas rendered so far, most frequent first.
func (r *Renderer) Lemmas() []string {
	lemmas := make([]string, 0, len(r.lemmaCount))
	for l := range r.lemmaCount {
		lemmas = append(lemmas, l)
	}

	sort.SliceStable(lemmas, func(i, j int) bool {
		ci, cj := r.lemmaCount[lemmas[i]], r.lemmaCount[lemmas[j]]
		if ci != cj {
			return ci > cj
		}
		return lemmas[i] < lemmas[j]
	})

	return lemmas
}

// Aggregate writes each lemma rendered so far with its number of
// occurrences, most frequent first.
func (r *Renderer) Aggregate() {
	for _, l := range r.Lemmas() {
		prefix := ""
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%5d] ✍  ", r.lemmaCount[l])
		}
		fmt.Fprintf(r.W, "%s%s\n", prefix, l)
	}
}
