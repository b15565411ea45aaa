// Package engine defines the boundary to an external text annotation
// engine: the properties it is configured with and the structured analysis
// it returns.
package engine

import (
	"context"
	"sort"
	"strings"
)

// Property keys understood by the engines of this module.
const (
	PropAnnotators = "annotators"
	PropPOSModel   = "pos.model"
	PropNERModel   = "ner.model"
)

// Properties configure an engine. Keys and values are the engine's own.
type Properties map[string]string

// Annotators returns the list of annotators in the "annotators" property.
func (p Properties) Annotators() []string {
	var names []string
	for _, a := range strings.Split(p[PropAnnotators], ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			names = append(names, a)
		}
	}
	return names
}

// Keys returns the property keys sorted.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Analysis is the result of analysing a text.
type Analysis struct {
	Sentences []AnalyzedSentence
}

// AnalyzedSentence holds the tokens of a sentence in text order.
type AnalyzedSentence struct {
	Tokens []AnalyzedToken
}

// AnalyzedToken is a token as reported by the engine. Text and Lemma may be
// escape tokens such as -LRB-.
type AnalyzedToken struct {
	Text  string
	Lemma string
	POS   string
	NER   string
}

// Engine analyses text. Implementations must not retain or modify an
// Analysis after returning it unless documented otherwise.
type Engine interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
}

// Loader configures an engine from properties, loading whatever models the
// properties name.
type Loader interface {
	Load(ctx context.Context, props Properties) (Engine, error)
}

// ConcurrencySafe is implemented by engines that know whether they can be
// called from several goroutines at once.
type ConcurrencySafe interface {
	ConcurrentSafe() bool
}

// IsConcurrentSafe reports whether e declares itself safe for concurrent
// use. Engines that do not implement ConcurrencySafe are not.
func IsConcurrentSafe(e Engine) bool {
	cs, ok := e.(ConcurrencySafe)
	return ok && cs.ConcurrentSafe()
}
