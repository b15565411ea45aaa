package query

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/revelaction/annotator/render"
	sent "github.com/revelaction/annotator/sentence"
	"github.com/revelaction/annotator/storage"
)

type annotatorFunc func(ctx context.Context, text string) ([]sent.Sentence, error)

func (f annotatorFunc) Annotate(ctx context.Context, text string) ([]sent.Sentence, error) {
	return f(ctx, text)
}

func wordsAnnotator() Annotator {
	return annotatorFunc(func(ctx context.Context, text string) ([]sent.Sentence, error) {
		var s sent.Sentence
		for _, w := range strings.Fields(text) {
			s = append(s, sent.NewToken(w, strings.ToLower(w), "NN", ""))
		}
		return []sent.Sentence{s}, nil
	})
}

type memRepo struct {
	results []storage.SentenceResult
}

func (m *memRepo) List(labelMatch string) ([]sent.Doc, error) { return nil, nil }
func (m *memRepo) Read(id int) (sent.Doc, error)             { return sent.Doc{}, storage.ErrNotFound }
func (m *memRepo) Labels(pattern string) ([]string, error)   { return nil, nil }

func (m *memRepo) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	cursor := after
	n := 0
	for _, r := range m.results {
		if storage.Cursor(r.RowID) <= after {
			continue
		}
		if err := onCandidate(r); err != nil {
			return cursor, err
		}
		cursor = storage.Cursor(r.RowID)
		n++
		if n == limit {
			break
		}
	}
	return cursor, nil
}

func newHandler(repo storage.DocReader) (*Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	r := render.NewRenderer(&buf)
	return NewHandler(wordsAnnotator(), repo, r), &buf
}

func TestEvalAnnotates(t *testing.T) {
	h, buf := newHandler(nil)

	quit, err := h.Eval(context.Background(), "  Cats sleep  ")
	if err != nil || quit {
		t.Fatalf("Eval: quit=%t err=%v", quit, err)
	}
	if buf.String() != "✍  0 Cats sleep\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestEvalQuitAndEmpty(t *testing.T) {
	h, buf := newHandler(nil)

	quit, err := h.Eval(context.Background(), "")
	if err != nil || quit {
		t.Fatalf("empty line: quit=%t err=%v", quit, err)
	}

	quit, err = h.Eval(context.Background(), "quit")
	if err != nil || !quit {
		t.Fatalf("quit: quit=%t err=%v", quit, err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestEvalCommands(t *testing.T) {
	h, buf := newHandler(nil)

	if _, err := h.Eval(context.Background(), ":format"); err != nil {
		t.Fatalf(":format: %v", err)
	}
	if h.Renderer.Format != "table" {
		t.Fatalf("expected table format, got %q", h.Renderer.Format)
	}

	if _, err := h.Eval(context.Background(), ":prefix"); err != nil {
		t.Fatalf(":prefix: %v", err)
	}
	if h.Renderer.HasPrefix {
		t.Fatal("expected prefix to be toggled off")
	}

	h.Renderer.Format = "text"
	if _, err := h.Eval(context.Background(), "Cat cat dog"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	buf.Reset()
	if _, err := h.Eval(context.Background(), ":lemmas"); err != nil {
		t.Fatalf(":lemmas: %v", err)
	}
	if buf.String() != "cat\ndog\n" {
		t.Fatalf("unexpected lemma output %q", buf.String())
	}

	if _, err := h.Eval(context.Background(), ":nope"); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestEvalAnnotationError(t *testing.T) {
	h, _ := newHandler(nil)
	h.Annotator = annotatorFunc(func(ctx context.Context, text string) ([]sent.Sentence, error) {
		return nil, errors.New("engine down")
	})

	quit, err := h.Eval(context.Background(), "text")
	if err == nil || quit {
		t.Fatalf("expected error without quitting, got quit=%t err=%v", quit, err)
	}
}

func TestQuery(t *testing.T) {
	repo := &memRepo{}
	for i := 1; i <= 3; i++ {
		repo.results = append(repo.results, storage.SentenceResult{
			RowID:    int64(i),
			DocID:    7,
			DocTitle: "cats.txt",
			Index:    i - 1,
			Tokens:   sent.Sentence{sent.NewToken("cat", "cat", "NN", "")},
		})
	}

	h, buf := newHandler(repo)
	if _, err := h.Eval(context.Background(), "/cat"); err != nil {
		t.Fatalf("Eval: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "cats.txt") || !strings.HasSuffix(lines[2], "cat") {
		t.Fatalf("unexpected line %q", lines[2])
	}
}

func TestQueryErrors(t *testing.T) {
	h, _ := newHandler(nil)
	if _, err := h.Eval(context.Background(), "/cat"); err == nil {
		t.Fatal("expected error without repository")
	}

	h, buf := newHandler(&memRepo{})
	if _, err := h.Eval(context.Background(), "/"); err == nil {
		t.Fatal("expected error without lemmas")
	}

	if _, err := h.Eval(context.Background(), "/cat"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if buf.String() != "no sentences for cat\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"short", "short"},
		{"exactly twenty chars", "exactly twenty chars"},
		{"a title longer than twenty", "a title longer than "},
		{"ñññññññññññññññññññññ", "ññññññññññññññññññññ"},
	}
	for _, tt := range tests {
		if got := title(tt.in); got != tt.want {
			t.Errorf("title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
