package sentence

import (
	"encoding/json"
	"strings"
)

// Doc is a stored annotation result: the sentences of one input text plus
// metadata.
type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels    []string   `json:"labels,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is the ordered list of tokens of a sentence, in original word
// order.
type Sentence []Token

// Text joins the words of the sentence with single spaces.
func (s Sentence) Text() string {
	words := make([]string, len(s))
	for i, t := range s {
		words[i] = t.word
	}
	return strings.Join(words, " ")
}

// Lemmas returns the unique, lower-cased, non-empty lemmas of the sentence in
// order of first appearance.
func (s Sentence) Lemmas() []string {
	seen := map[string]bool{}
	var lemmas []string
	for _, t := range s {
		l := strings.ToLower(t.lemma)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		lemmas = append(lemmas, l)
	}
	return lemmas
}

// Token is an annotated word of a sentence. It is immutable: the fields are
// only readable through the accessors.
type Token struct {
	word  string
	lemma string
	pos   string
	ne    string
}

// NewToken returns a Token with the given surface word, lemma, part-of-speech
// tag and named-entity tag.
func NewToken(word, lemma, pos, ne string) Token {
	return Token{word: word, lemma: lemma, pos: pos, ne: ne}
}

// The surface word
func (t Token) Word() string { return t.word }

// The lemma of the word
func (t Token) Lemma() string { return t.lemma }

// The part-of-speech tag
func (t Token) Pos() string { return t.pos }

// The named-entity tag. Empty when not annotated.
func (t Token) NE() string { return t.ne }

type tokenJSON struct {
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
	Pos   string `json:"pos"`
	NE    string `json:"ne"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{Word: t.word, Lemma: t.lemma, Pos: t.pos, NE: t.ne})
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var tj tokenJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	*t = NewToken(tj.Word, tj.Lemma, tj.Pos, tj.NE)
	return nil
}
