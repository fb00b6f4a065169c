package services

import (
	"strings"
	"sync"

	"newsrag/models"
)

// DocumentStore is the in-process corpus backing the lexical retrieval path.
// Documents and their bag-of-words vectors are parallel slices; the store is
// append-only and deduplicates by trimmed URL. Documents with an empty URL
// are unkeyed and never deduplicated.
type DocumentStore struct {
	mu      sync.RWMutex
	docs    []models.Document
	vectors []map[string]int
	seen    map[string]struct{}
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{seen: make(map[string]struct{})}
}

func dedupKey(doc models.Document) string {
	return strings.TrimSpace(doc.Metadata.URL)
}

// FilterNew returns the subset of docs that would be newly added, without
// mutating the store. Used to decide which documents the vector path should
// embed before the lexical append happens.
func (s *DocumentStore) FilterNew(docs []models.Document) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fresh := make([]models.Document, 0, len(docs))
	batch := make(map[string]struct{})
	for _, doc := range docs {
		key := dedupKey(doc)
		if key != "" {
			if _, ok := s.seen[key]; ok {
				continue
			}
			if _, ok := batch[key]; ok {
				continue
			}
			batch[key] = struct{}{}
		}
		fresh = append(fresh, doc)
	}
	return fresh
}

// Add appends every not-yet-seen document together with its lexical vector
// and returns how many were newly added. Already-seen URLs are silently
// skipped.
func (s *DocumentStore) Add(docs []models.Document) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, doc := range docs {
		key := dedupKey(doc)
		if key != "" {
			if _, ok := s.seen[key]; ok {
				continue
			}
			s.seen[key] = struct{}{}
		}
		s.docs = append(s.docs, doc)
		s.vectors = append(s.vectors, Vectorize(Tokenize(doc.Text)))
		added++
	}
	return added
}

// Len reports the number of stored documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Snapshot returns the current documents and vectors. Both slices share
// backing arrays with the store; the store is append-only, so existing
// entries never change underneath a reader.
func (s *DocumentStore) Snapshot() ([]models.Document, []map[string]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[:len(s.docs):len(s.docs)], s.vectors[:len(s.vectors):len(s.vectors)]
}

// Clear resets documents, vectors, and the dedup key set together.
func (s *DocumentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.vectors = nil
	s.seen = make(map[string]struct{})
}
