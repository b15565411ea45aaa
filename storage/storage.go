package storage

import (
	"errors"

	sent "github.com/revelaction/annotator/sentence"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// Cursor for paginated lemma-based queries
type Cursor int64

// SentenceResult is a sentence found by a lemma query.
type SentenceResult struct {
	RowID int64
	DocID int

	DocTitle string

	// Index is the position of the sentence in its doc
	Index int

	Tokens sent.Sentence
}

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Sentences) is not loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// FindCandidates returns the sentences containing ALL given lemmas
	// (compared lower-cased), resuming after the given cursor. It calls
	// onCandidate for each result, at most limit times.
	// Returns the new cursor and any error.
	FindCandidates(lemmas []string, after Cursor, limit int, onCandidate func(SentenceResult) error) (Cursor, error)

	// Labels returns all unique labels found across all documents, sorted alphabetically.
	// If pattern is not empty, it returns labels that contain the pattern.
	Labels(pattern string) ([]string, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences/lemmas to storage and
	// returns its id.
	Write(doc sent.Doc) (int, error)
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}
