package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	sent "github.com/revelaction/annotator/sentence"
	"github.com/revelaction/annotator/storage"
)

// DocStore keeps one JSON file per doc in a directory. Doc ids are
// positions in the doc order: files placed by hand first, in name order, then
// the files written by the store, named by increasing ULIDs. A write always
// appends, so the ids of existing docs do not change.
type DocStore struct {
	docDir string

	// In-memory cache
	docs  []sent.Doc
	names []string

	loaded bool
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document handler.
func NewDocStore(docDir string) (*DocStore, error) {
	h := &DocStore{docDir: docDir}
	if err := h.LoadList(); err != nil {
		return nil, err
	}
	return h, nil
}

// LoadList reads the names of the doc files. Contents are loaded lazily.
func (h *DocStore) LoadList() error {
	files, err := os.ReadDir(h.docDir)
	if err != nil {
		return err
	}

	var foreign, written []string
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		if _, ok := parseName(file.Name()); ok {
			written = append(written, file.Name())
		} else {
			foreign = append(foreign, file.Name())
		}
	}
	sort.Strings(foreign)
	sort.Slice(written, func(i, j int) bool {
		a, _ := parseName(written[i])
		b, _ := parseName(written[j])
		return a.Compare(b) < 0
	})
	h.names = append(foreign, written...)

	h.docs = make([]sent.Doc, len(h.names))
	for i, name := range h.names {
		h.docs[i] = sent.Doc{Id: i, Title: name}
	}
	h.loaded = false

	return nil
}

// LoadAll preloads all docs into memory.
// The callback is called for each file loaded (total, current_name).
func (h *DocStore) LoadAll(cb func(total int, name string)) error {
	if h.loaded {
		return nil
	}

	total := len(h.names)
	for i, name := range h.names {
		if cb != nil {
			cb(total, name)
		}

		doc, err := ReadDoc(filepath.Join(h.docDir, name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		doc.Id = i
		if doc.Title == "" {
			doc.Title = name
		}
		h.docs[i] = doc
	}

	h.loaded = true
	return nil
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(h.docs))
	for _, d := range h.docs {
		if labelMatch != "" && !hasLabel(d.Labels, labelMatch) {
			continue
		}
		docs = append(docs, sent.Doc{Id: d.Id, Title: d.Title, Labels: d.Labels})
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.names) {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	if h.loaded {
		return h.docs[id], nil
	}

	doc, err := ReadDoc(filepath.Join(h.docDir, h.names[id]))
	if err != nil {
		return sent.Doc{}, err
	}
	doc.Id = id
	if doc.Title == "" {
		doc.Title = h.names[id]
	}
	return doc, nil
}

// FindCandidates scans all sentences in memory. The cursor is the number of
// sentences already scanned.
func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if len(lemmas) == 0 {
		return after, nil
	}

	if err := h.LoadAll(nil); err != nil {
		return after, err
	}

	wanted := make([]string, len(lemmas))
	for i, l := range lemmas {
		wanted[i] = strings.ToLower(l)
	}

	var pos int64
	found := 0
	for _, doc := range h.docs {
		for idx, s := range doc.Sentences {
			pos++
			if pos <= int64(after) {
				continue
			}

			if !containsAll(s.Lemmas(), wanted) {
				continue
			}

			err := onCandidate(storage.SentenceResult{
				RowID:    pos,
				DocID:    doc.Id,
				DocTitle: doc.Title,
				Index:    idx,
				Tokens:   s,
			})
			if err != nil {
				return storage.Cursor(pos), err
			}

			found++
			if found == limit {
				return storage.Cursor(pos), nil
			}
		}
	}

	return storage.Cursor(pos), nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	docs, err := h.List("")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	labels := []string{}
	for _, d := range docs {
		for _, l := range d.Labels {
			if seen[l] || (pattern != "" && !strings.Contains(l, pattern)) {
				continue
			}
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

// Write stores doc in a new file named by a ULID greater than the one of
// the last written doc, and returns its id.
func (h *DocStore) Write(doc sent.Doc) (int, error) {
	id := ulid.Make()
	if n := len(h.names); n > 0 {
		if last, ok := parseName(h.names[n-1]); ok && id.Compare(last) <= 0 {
			id = successor(last)
		}
	}
	name := id.String() + ".json"

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(filepath.Join(h.docDir, name), data, 0644); err != nil {
		return 0, err
	}

	docID := len(h.names)
	doc.Id = docID
	if doc.Title == "" {
		doc.Title = name
	}
	if !h.loaded {
		doc = sent.Doc{Id: docID, Title: doc.Title}
	}
	h.names = append(h.names, name)
	h.docs = append(h.docs, doc)

	return docID, nil
}

// parseName returns the ULID of a file written by the store.
func parseName(name string) (ulid.ULID, bool) {
	stem, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return ulid.ULID{}, false
	}
	id, err := ulid.ParseStrict(stem)
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

// successor returns the ULID following id, incrementing its entropy.
func successor(id ulid.ULID) ulid.ULID {
	for i := len(id) - 1; i >= 6; i-- {
		id[i]++
		if id[i] != 0 {
			break
		}
	}
	return id
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}

func hasLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func containsAll(have, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
