package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	sent "github.com/revelaction/annotator/sentence"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(nil); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestJSONRendererRenderSentences(t *testing.T) {
	sentences := []sent.Sentence{
		{sent.NewToken("(", "(", "-LRB-", ""), sent.NewToken("Hello", "hello", "UH", ""), sent.NewToken(")", ")", "-RRB-", "")},
		{sent.NewToken("World", "world", "NN", "")},
	}

	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(sentences); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var results [][]map[string]string
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(results))
	}

	if len(results[0]) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(results[0]))
	}

	first := results[0][0]
	if first["word"] != "(" || first["lemma"] != "(" || first["pos"] != "-LRB-" || first["ne"] != "" {
		t.Errorf("unexpected first token %v", first)
	}
}

func TestJSONRendererRenderDoc(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	doc := sent.Doc{Id: 3, Title: "a.txt", Sentences: []sent.Sentence{{sent.NewToken("x", "x", "NN", "")}}}
	if err := r.RenderDoc(doc); err != nil {
		t.Fatalf("RenderDoc: %v", err)
	}

	var got sent.Doc
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if got.Title != "a.txt" || len(got.Sentences) != 1 || got.Sentences[0][0].Word() != "x" {
		t.Fatalf("unexpected doc %+v", got)
	}
}
