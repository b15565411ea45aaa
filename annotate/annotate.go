// Package annotate wraps an external annotation engine configured for
// tokenization, sentence splitting, part-of-speech tagging and lemmatization,
// and reshapes its output into sentences of sentence.Token.
//
// An Annotator is built once per process, since building it makes the engine
// load its models, and then reused. It holds no mutable state of its own: if
// the engine declares itself safe for concurrent use (see
// engine.ConcurrencySafe) Annotate runs without locking, otherwise calls are
// serialized with a mutex.
package annotate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/revelaction/annotator/engine"
	sent "github.com/revelaction/annotator/sentence"
)

// Annotators is the annotator set the engine is configured with. The NER
// model is passed to the engine but "ner" is not requested.
var Annotators = []string{"tokenize", "ssplit", "pos", "lemma"}

type Annotator struct {
	engine engine.Engine
	props  engine.Properties

	// mu is nil when the engine is used without locking
	mu *sync.Mutex

	logger *slog.Logger
}

type Option func(*options)

type options struct {
	logger     *slog.Logger
	serialized bool
}

// WithLogger sets the logger. Annotate logs at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSerialized forces exclusive access to the engine even if it declares
// itself safe for concurrent use.
func WithSerialized() Option {
	return func(o *options) { o.serialized = true }
}

// Properties returns the engine configuration for the given model paths.
func Properties(posModel, nerModel string) engine.Properties {
	return engine.Properties{
		engine.PropAnnotators: strings.Join(Annotators, ","),
		engine.PropPOSModel:   posModel,
		engine.PropNERModel:   nerModel,
	}
}

// New configures an engine through loader with the part-of-speech and
// named-entity model paths. All returned errors match ErrEngineInit.
func New(ctx context.Context, loader engine.Loader, posModel, nerModel string, opts ...Option) (*Annotator, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if loader == nil {
		return nil, &InitError{Err: errors.New("no engine loader")}
	}

	if posModel == "" {
		return nil, &InitError{Err: errors.New("empty part-of-speech model path")}
	}

	if nerModel == "" {
		return nil, &InitError{Err: errors.New("empty named-entity model path")}
	}

	props := Properties(posModel, nerModel)

	start := time.Now()
	e, err := loader.Load(ctx, props)
	if err != nil {
		var ie *InitError
		if errors.As(err, &ie) {
			return nil, ie
		}
		return nil, &InitError{Err: err}
	}

	a := &Annotator{
		engine: e,
		props:  props,
		logger: o.logger,
	}

	if o.serialized || !engine.IsConcurrentSafe(e) {
		a.mu = &sync.Mutex{}
	}

	a.logger.Info("engine loaded",
		slog.String("annotators", props[engine.PropAnnotators]),
		slog.String("pos_model", posModel),
		slog.String("ner_model", nerModel),
		slog.Bool("serialized", a.mu != nil),
		slog.Duration("elapsed", time.Since(start)),
	)

	return a, nil
}

// Properties returns a copy of the properties the engine was configured with.
func (a *Annotator) Properties() engine.Properties {
	p := make(engine.Properties, len(a.props))
	for k, v := range a.props {
		p[k] = v
	}
	return p
}

// Annotate analyses text with the engine in a single call and returns its
// sentences in text order. Words and lemmas are passed through Normalize; the
// named-entity tag of every token is empty. An empty text returns an empty
// result. All returned errors match ErrAnnotation.
func (a *Annotator) Annotate(ctx context.Context, text string) ([]sent.Sentence, error) {
	start := time.Now()

	analysis, err := a.analyze(ctx, text)
	if err != nil {
		a.logger.Debug("annotation failed", slog.Int("bytes", len(text)), slog.Any("err", err))
		return nil, &AnnotationError{Err: err}
	}

	sentences := []sent.Sentence{}
	numTokens := 0
	if analysis != nil {
		sentences = make([]sent.Sentence, 0, len(analysis.Sentences))
		for _, as := range analysis.Sentences {
			s := make(sent.Sentence, 0, len(as.Tokens))
			for _, at := range as.Tokens {
				s = append(s, sent.NewToken(Normalize(at.Text), Normalize(at.Lemma), at.POS, ""))
			}
			numTokens += len(s)
			sentences = append(sentences, s)
		}
	}

	a.logger.Debug("annotated",
		slog.Int("bytes", len(text)),
		slog.Int("sentences", len(sentences)),
		slog.Int("tokens", numTokens),
		slog.Duration("elapsed", time.Since(start)),
	)

	return sentences, nil
}

func (a *Annotator) analyze(ctx context.Context, text string) (*engine.Analysis, error) {
	if a.mu != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	return a.engine.Analyze(ctx, text)
}
