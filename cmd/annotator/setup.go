package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/annotator/annotate"
	"github.com/revelaction/annotator/engine/cache"
	"github.com/revelaction/annotator/storage"
	"github.com/revelaction/annotator/storage/filesystem"
	"github.com/revelaction/annotator/storage/sqlite/zombiezen"
)

// sqliteExts are the extensions of doc paths created as SQLite files.
var sqliteExts = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}

// newAnnotator loads the engine. The CoreNLP server is the external engine,
// fronted by an LRU cache unless disabled.
func (a *app) newAnnotator(ctx context.Context) (*annotate.Annotator, error) {
	ec := a.cfg.Engine

	loader := &cache.Loader{Next: a.newLoader(ec), Size: ec.CacheSize}

	opts := []annotate.Option{annotate.WithLogger(a.logger)}
	if ec.Serialize {
		opts = append(opts, annotate.WithSerialized())
	}

	return annotate.New(ctx, loader, ec.POSModel, ec.NERModel, opts...)
}

// docRepository opens the doc path: a directory of JSON docs or a SQLite
// file. With create, a missing path is created, as SQLite when its extension
// is one of sqliteExts.
func (a *app) docRepository(create bool) (storage.DocRepository, error) {
	path := a.cfg.Storage.DocPath
	if path == "" {
		return nil, errors.New("doc path must be specified via -d, ANNOTATOR_DOC_PATH or storage.doc_path")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && create:
		if !sqliteExts[strings.ToLower(filepath.Ext(path))] {
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, fmt.Errorf("failed to create doc directory: %w", err)
			}
			return filesystem.NewDocStore(path)
		}
		return a.sqliteRepository(path)
	default:
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	return a.sqliteRepository(path)
}

func (a *app) sqliteRepository(path string) (storage.DocRepository, error) {
	pool, err := a.pool.Open(path)
	if err != nil {
		return nil, err
	}

	if err := zombiezen.CreateDocTables(pool); err != nil {
		return nil, fmt.Errorf("failed to create docs table: %w", err)
	}

	return zombiezen.NewDocStore(pool), nil
}
