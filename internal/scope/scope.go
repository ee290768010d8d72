// Package scope tracks the document list and the optional single-document
// restriction applied to queries. Selection is pure state: changing it never
// triggers a network call by itself.
package scope

import (
	"errors"
	"sync"

	"github.com/documind/cli/internal/gateway"
)

// ErrUnknownDocument is returned when selecting an id that is not in the
// current document list.
var ErrUnknownDocument = errors.New("document not in current list")

// Store holds the document list and the selected scope. The list is
// externally owned: it is replaced wholesale by the fetch completion handler
// and never patched piecemeal. Everything else only reads.
type Store struct {
	mu       sync.RWMutex
	docs     []gateway.Document
	selected string // "" means query across all documents
}

// NewStore returns an empty Store with no scope selected.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly fetched document list. If the currently
// selected document is no longer present, the scope resets to all documents.
func (s *Store) Replace(docs []gateway.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append([]gateway.Document(nil), docs...)
	if s.selected != "" && !contains(s.docs, s.selected) {
		s.selected = ""
	}
}

// Select scopes future queries to a single document id. Selecting an id that
// is not in the current list is rejected.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !contains(s.docs, id) {
		return ErrUnknownDocument
	}
	s.selected = id
	return nil
}

// Clear resets the scope to all documents.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Selected returns the scoped document id, or ok=false when querying across
// all documents.
func (s *Store) Selected() (id string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// Documents returns a copy of the current document list.
func (s *Store) Documents() []gateway.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gateway.Document(nil), s.docs...)
}

// Lookup finds a document by id in the current list.
func (s *Store) Lookup(id string) (gateway.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.DocumentID == id {
			return d, true
		}
	}
	return gateway.Document{}, false
}

func contains(docs []gateway.Document, id string) bool {
	for _, d := range docs {
		if d.DocumentID == id {
			return true
		}
	}
	return false
}
