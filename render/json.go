package render

import (
	"encoding/json"
	"io"

	sent "github.com/revelaction/annotator/sentence"
)

// JSONRenderer writes annotation results as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the sentences as a JSON array of arrays of tokens.
func (r *JSONRenderer) Render(sentences []sent.Sentence) error {
	if sentences == nil {
		sentences = []sent.Sentence{}
	}
	return json.NewEncoder(r.W).Encode(sentences)
}

// RenderDoc serializes a whole doc.
func (r *JSONRenderer) RenderDoc(doc sent.Doc) error {
	return json.NewEncoder(r.W).Encode(doc)
}
