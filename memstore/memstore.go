// Package memstore is the in-memory Store used by tests, the example, and
// the server when no database is configured.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/meikuraledutech/botflow"
)

// Store keeps workflow documents in a map. Safe for concurrent use.
// Documents are deep-copied on the way in and out.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*botflow.Document
}

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*botflow.Document)}
}

func (s *Store) SaveWorkflow(_ context.Context, name string, doc *botflow.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = doc.Clone()
	return nil
}

func (s *Store) LoadWorkflow(_ context.Context, name string) (*botflow.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, botflow.ErrWorkflowNotFound
	}
	return doc.Clone(), nil
}

func (s *Store) DeleteWorkflow(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

func (s *Store) ListWorkflows(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
