// Package corenlp is an engine.Engine backed by a Stanford CoreNLP server
// (https://stanfordnlp.github.io/CoreNLP/corenlp-server.html).
//
// The server builds and caches one pipeline per distinct set of properties,
// so Load sends a warm-up request to make it load the models up front. The
// server handles concurrent requests, so the engine is safe for concurrent
// use.
package corenlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/revelaction/annotator/engine"
)

const (
	DefaultURL     = "http://localhost:9000"
	DefaultTimeout = 60 * time.Second

	warmupText = "Warm up."

	// max bytes of an error body kept in the error message
	maxErrBody = 4096
)

// Loader connects to a CoreNLP server.
type Loader struct {
	URL string

	HTTPClient *http.Client
}

// NewLoader returns a Loader for the server at rawURL. A zero timeout means
// DefaultTimeout.
func NewLoader(rawURL string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{
		URL:        rawURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

var _ engine.Loader = (*Loader)(nil)

// Load returns an Engine that annotates with props. The server is asked to
// annotate a short text so that it loads the models named in props; a
// failure there is returned as a load error.
func (l *Loader) Load(ctx context.Context, props engine.Properties) (engine.Engine, error) {
	if l.URL == "" {
		return nil, errors.New("corenlp: server URL required")
	}

	base, err := url.Parse(strings.TrimSuffix(l.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("corenlp: invalid server URL %q: %w", l.URL, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("corenlp: unsupported URL scheme %q", base.Scheme)
	}

	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	e := &Engine{
		base:   base,
		client: client,
		props:  props,
	}

	if _, err := e.Analyze(ctx, warmupText); err != nil {
		return nil, fmt.Errorf("corenlp: loading pipeline: %w", err)
	}

	return e, nil
}

// Engine annotates texts on a CoreNLP server.
type Engine struct {
	base   *url.URL
	client *http.Client
	props  engine.Properties
}

var _ engine.Engine = (*Engine)(nil)
var _ engine.ConcurrencySafe = (*Engine)(nil)

// ConcurrentSafe reports true: the server handles requests concurrently.
func (e *Engine) ConcurrentSafe() bool { return true }

// ServerError is a non 200 response of the server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("corenlp: server returned %d: %s", e.StatusCode, e.Message)
}

type response struct {
	Sentences []struct {
		Index  int `json:"index"`
		Tokens []struct {
			Index        int    `json:"index"`
			Word         string `json:"word"`
			OriginalText string `json:"originalText"`
			Lemma        string `json:"lemma"`
			POS          string `json:"pos"`
			NER          string `json:"ner"`
		} `json:"tokens"`
	} `json:"sentences"`
}

// Analyze posts text to the server and decodes its JSON output.
func (e *Engine) Analyze(ctx context.Context, text string) (*engine.Analysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.annotateURL(), strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("corenlp: decoding response: %w", err)
	}

	analysis := &engine.Analysis{Sentences: make([]engine.AnalyzedSentence, 0, len(payload.Sentences))}
	for _, s := range payload.Sentences {
		as := engine.AnalyzedSentence{Tokens: make([]engine.AnalyzedToken, 0, len(s.Tokens))}
		for _, t := range s.Tokens {
			as.Tokens = append(as.Tokens, engine.AnalyzedToken{
				Text:  t.Word,
				Lemma: t.Lemma,
				POS:   t.POS,
				NER:   t.NER,
			})
		}
		analysis.Sentences = append(analysis.Sentences, as)
	}

	return analysis, nil
}

// Ping checks that the server is ready to accept annotation requests.
func (e *Engine) Ping(ctx context.Context) error {
	u := *e.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ready"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return nil
}

func (e *Engine) annotateURL() string {
	u := *e.base
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set("properties", e.propertiesJSON())
	u.RawQuery = q.Encode()
	return u.String()
}

func (e *Engine) propertiesJSON() string {
	p := make(map[string]string, len(e.props)+1)
	for k, v := range e.props {
		p[k] = v
	}
	p["outputFormat"] = "json"

	var buf bytes.Buffer
	// map keys are sorted by encoding/json, the URL is stable across calls
	_ = json.NewEncoder(&buf).Encode(p)
	return strings.TrimSpace(buf.String())
}
