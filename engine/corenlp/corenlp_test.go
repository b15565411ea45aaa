package corenlp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/revelaction/annotator/engine"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

const bracketsResponse = `{
  "sentences": [
    {
      "index": 0,
      "tokens": [
        {"index": 1, "word": "-LRB-", "originalText": "(", "lemma": "-lrb-", "pos": "-LRB-", "ner": "O"},
        {"index": 2, "word": "Hello", "originalText": "Hello", "lemma": "hello", "pos": "UH", "ner": "O"},
        {"index": 3, "word": "-RRB-", "originalText": ")", "lemma": "-rrb-", "pos": "-RRB-", "ner": "O"}
      ]
    },
    {
      "index": 1,
      "tokens": [
        {"index": 1, "word": "Paris", "originalText": "Paris", "lemma": "Paris", "pos": "NNP", "ner": "CITY"},
        {"index": 2, "word": ".", "originalText": ".", "lemma": ".", "pos": ".", "ner": "O"}
      ]
    }
  ]
}`

var testProps = engine.Properties{
	engine.PropAnnotators: "tokenize,ssplit,pos,lemma",
	engine.PropPOSModel:   "/models/pos.tagger",
	engine.PropNERModel:   "/models/ner.crf.ser.gz",
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestLoadSendsProperties(t *testing.T) {
	var requests int
	l := &Loader{
		URL: "http://corenlp.test:9000",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				requests++
				if req.Method != http.MethodPost {
					t.Fatalf("expected POST, got %s", req.Method)
				}

				var props map[string]string
				if err := json.Unmarshal([]byte(req.URL.Query().Get("properties")), &props); err != nil {
					t.Fatalf("properties query: %v", err)
				}
				if props["annotators"] != "tokenize,ssplit,pos,lemma" {
					t.Fatalf("unexpected annotators %q", props["annotators"])
				}
				if props["pos.model"] != "/models/pos.tagger" {
					t.Fatalf("unexpected pos.model %q", props["pos.model"])
				}
				if props["ner.model"] != "/models/ner.crf.ser.gz" {
					t.Fatalf("unexpected ner.model %q", props["ner.model"])
				}
				if props["outputFormat"] != "json" {
					t.Fatalf("unexpected outputFormat %q", props["outputFormat"])
				}
				return jsonResponse(200, `{"sentences":[]}`)
			}),
		},
	}

	e, err := l.Load(context.Background(), testProps)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected one warm-up request, got %d", requests)
	}
	if !engine.IsConcurrentSafe(e) {
		t.Fatal("expected corenlp engine to be concurrent safe")
	}
}

func TestLoadDefaultClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"sentences":[]}`)
	}))
	defer srv.Close()

	l := &Loader{URL: srv.URL}
	e, err := l.Load(context.Background(), testProps)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ce := e.(*Engine)
	if ce.client == nil {
		t.Fatal("expected a default client")
	}
	if ce.client.Timeout != DefaultTimeout {
		t.Errorf("timeout: got %v, want %v", ce.client.Timeout, DefaultTimeout)
	}

	client := ce.client
	if _, err := e.Analyze(context.Background(), "Hi."); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if ce.client != client {
		t.Error("client replaced between calls")
	}
}

func TestLoadModelError(t *testing.T) {
	l := &Loader{
		URL: "http://corenlp.test:9000",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(500, "edu.stanford.nlp.io.RuntimeIOException: Error while loading a tagger model (probably missing model file)\n")
			}),
		},
	}

	_, err := l.Load(context.Background(), testProps)
	if err == nil {
		t.Fatal("expected error")
	}

	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServerError, got %T: %v", err, err)
	}
	if se.StatusCode != 500 {
		t.Fatalf("unexpected status %d", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "missing model file") {
		t.Fatalf("expected server message in error, got %q", err.Error())
	}
}

func TestLoadInvalidURL(t *testing.T) {
	tests := []string{"", "ftp://corenlp.test", "://bad"}
	for _, u := range tests {
		l := &Loader{URL: u}
		if _, err := l.Load(context.Background(), testProps); err == nil {
			t.Errorf("URL %q: expected error", u)
		}
	}
}

func TestAnalyze(t *testing.T) {
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, bracketsResponse)
	}))
	defer srv.Close()

	e, err := NewLoader(srv.URL, 0).Load(context.Background(), testProps)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a, err := e.Analyze(context.Background(), "(Hello) Paris.")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got, _ := gotBody.Load().(string); got != "(Hello) Paris." {
		t.Fatalf("expected raw text body, got %q", got)
	}

	if len(a.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(a.Sentences))
	}
	if len(a.Sentences[0].Tokens) != 3 || len(a.Sentences[1].Tokens) != 2 {
		t.Fatalf("unexpected token counts %d %d", len(a.Sentences[0].Tokens), len(a.Sentences[1].Tokens))
	}

	first := a.Sentences[0].Tokens[0]
	if first.Text != "-LRB-" || first.Lemma != "-lrb-" || first.POS != "-LRB-" {
		t.Fatalf("engine must report tokens as the server does, got %+v", first)
	}

	paris := a.Sentences[1].Tokens[0]
	if paris.NER != "CITY" {
		t.Fatalf("expected NER to be decoded, got %q", paris.NER)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "java.lang.OutOfMemoryError: Java heap space", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"sentences":[]}`)
	}))
	defer srv.Close()

	e, err := NewLoader(srv.URL, 0).Load(context.Background(), testProps)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fail.Store(true)
	_, err = e.Analyze(context.Background(), "text")
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServerError, got %v", err)
	}
	if se.Message != "java.lang.OutOfMemoryError: Java heap space" {
		t.Fatalf("unexpected message %q", se.Message)
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	e := &Engine{
		client: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(200, `<html>`)
			}),
		},
		props: testProps,
	}
	e.base = mustParse(t, "http://corenlp.test")

	if _, err := e.Analyze(context.Background(), "text"); err == nil {
		t.Fatal("expected decoding error")
	}
}

func TestPing(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ready" {
			if !ready.Load() {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, "ready")
			return
		}
		_, _ = io.WriteString(w, `{"sentences":[]}`)
	}))
	defer srv.Close()

	eng, err := NewLoader(srv.URL+"/", 0).Load(context.Background(), testProps)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := eng.(*Engine)

	if err := e.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ready.Store(false)
	if err := e.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}
