// Package cache memoizes engine analyses by text in an LRU cache.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/revelaction/annotator/engine"
)

const DefaultSize = 256

// Loader wraps the engine loaded by Next in a caching Engine. A Size of zero
// or less disables caching and returns the engine of Next unchanged.
type Loader struct {
	Next engine.Loader
	Size int
}

var _ engine.Loader = (*Loader)(nil)

func (l *Loader) Load(ctx context.Context, props engine.Properties) (engine.Engine, error) {
	e, err := l.Next.Load(ctx, props)
	if err != nil {
		return nil, err
	}

	if l.Size <= 0 {
		return e, nil
	}

	return New(e, l.Size)
}

// Engine returns cached analyses for texts already seen. The returned
// Analysis is shared between callers and must be treated as read-only.
// Failed analyses are not cached.
type Engine struct {
	next  engine.Engine
	cache *lru.Cache[string, *engine.Analysis]
}

var _ engine.Engine = (*Engine)(nil)
var _ engine.ConcurrencySafe = (*Engine)(nil)

func New(next engine.Engine, size int) (*Engine, error) {
	c, err := lru.New[string, *engine.Analysis](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Engine{next: next, cache: c}, nil
}

func (e *Engine) Analyze(ctx context.Context, text string) (*engine.Analysis, error) {
	if a, ok := e.cache.Get(text); ok {
		return a, nil
	}

	a, err := e.next.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Add(text, a)
	return a, nil
}

// ConcurrentSafe reports the concurrency safety of the wrapped engine; the
// cache itself is safe.
func (e *Engine) ConcurrentSafe() bool {
	return engine.IsConcurrentSafe(e.next)
}

// Len returns the number of cached analyses.
func (e *Engine) Len() int {
	return e.cache.Len()
}
