package corpus

import (
	"fmt"

	"ragqa/internal/domain"
)

// Record is one stored chunk. Ordinal is its position in the corpus and the
// only link to its vector.
type Record struct {
	Ordinal    int
	DocumentID string
	Text       string
}

// Store is an ordered, append-only sequence of chunk records.
// It performs no locking of its own.
type Store struct {
	records []Record
}

func NewStore() *Store { return &Store{} }

// AppendAll appends chunks in order and returns the new records.
func (s *Store) AppendAll(documentID string, chunks []string) []Record {
	start := len(s.records)
	for i, text := range chunks {
		s.records = append(s.records, Record{Ordinal: start + i, DocumentID: documentID, Text: text})
	}
	return s.records[start:len(s.records):len(s.records)]
}

// Get returns the record at ordinal.
func (s *Store) Get(ordinal int) (Record, error) {
	if ordinal < 0 || ordinal >= len(s.records) {
		return Record{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrOutOfRange, ordinal, len(s.records))
	}
	return s.records[ordinal], nil
}

func (s *Store) Size() int { return len(s.records) }

// Snapshot returns a view of the records appended so far.
func (s *Store) Snapshot() *Store {
	n := len(s.records)
	return &Store{records: s.records[:n:n]}
}
