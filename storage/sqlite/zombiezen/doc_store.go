package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sent "github.com/revelaction/annotator/sentence"
	"github.com/revelaction/annotator/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := sent.Doc{
				Id:     stmt.ColumnInt(0),
				Title:  stmt.ColumnText(1),
				Labels: splitLabels(stmt.ColumnText(2)),
			}
			if labelMatch != "" && !hasLabel(doc.Labels, labelMatch) {
				return nil
			}
			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			doc.Labels = splitLabels(stmt.ColumnText(1))
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	doc.Sentences = []sent.Sentence{}
	err = sqlitex.Execute(conn, "SELECT data FROM sentences WHERE doc_id = ? ORDER BY idx", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var tokens sent.Sentence
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &tokens); err != nil {
				return err
			}
			doc.Sentences = append(doc.Sentences, tokens)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if len(lemmas) == 0 {
		return after, nil
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	// Build query dynamically based on number of lemmas.
	// We use INTERSECT to ensure that we only get sentence ids that contain ALL lemmas.
	// Note: INTERSECT also guarantees that the resulting set of ids is unique.
	var inner strings.Builder
	var args []interface{}

	for i, lemma := range lemmas {
		if i > 0 {
			inner.WriteString(" INTERSECT ")
		}
		inner.WriteString("SELECT sentence_rowid FROM sentence_lemmas WHERE lemma = ? AND sentence_rowid > ?")
		args = append(args, strings.ToLower(lemma), int64(after))
	}

	query := "SELECT s.id, s.doc_id, d.title, s.idx, s.data FROM sentences s JOIN docs d ON d.id = s.doc_id " +
		"WHERE s.id IN (" + inner.String() + ") ORDER BY s.id LIMIT ?"
	args = append(args, limit)

	newCursor := after
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			res := storage.SentenceResult{
				RowID:    stmt.ColumnInt64(0),
				DocID:    stmt.ColumnInt(1),
				DocTitle: stmt.ColumnText(2),
				Index:    stmt.ColumnInt(3),
			}
			if err := json.Unmarshal([]byte(stmt.ColumnText(4)), &res.Tokens); err != nil {
				return err
			}
			newCursor = storage.Cursor(res.RowID)
			return onCandidate(res)
		},
	})
	if err != nil {
		return newCursor, err
	}

	return newCursor, nil
}

func (h *DocStore) Labels(pattern string) ([]string, error) {
	docs, err := h.List("")
	if err != nil {
		return nil, err
	}
	return uniqueLabels(docs, pattern), nil
}

func (h *DocStore) Write(doc sent.Doc) (id int, err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	labels := strings.Join(doc.Labels, ",")
	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, labels},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for idx, sentence := range doc.Sentences {
		data, marshalErr := json.Marshal(sentence)
		if marshalErr != nil {
			return 0, marshalErr
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, idx, data) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{docID, idx, string(data)},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert sentence: %w", err)
		}
		sentRowID := conn.LastInsertRowID()

		for _, lemma := range sentence.Lemmas() {
			err = sqlitex.Execute(conn, "INSERT INTO sentence_lemmas (lemma, sentence_rowid) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{lemma, sentRowID},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert lemma: %w", err)
			}
		}
	}

	return int(docID), nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func hasLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func uniqueLabels(docs []sent.Doc, pattern string) []string {
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
	return labels
}
