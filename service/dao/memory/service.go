package memory

import (
	"context"
	"sync"

	"github.com/AntoineSebert/scheduling-solver/runtime/pipeline"
	"github.com/AntoineSebert/scheduling-solver/service/dao"
)

// Service is an in-memory result store. All operations are safe for
// concurrent use and exchange clones so that callers cannot race on a
// stored record.
type Service struct {
	results map[string]*pipeline.Result
	mux     sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[string, pipeline.Result] = (*Service)(nil)

// New creates an empty result store.
func New() *Service {
	return &Service{results: map[string]*pipeline.Result{}}
}

// Save persists (a clone of) the supplied result.
func (s *Service) Save(_ context.Context, r *pipeline.Result) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.results[r.ID] = r.Clone()
	return nil
}

// Load retrieves a copy of the result or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*pipeline.Result, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	r, ok := s.results[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

// List returns copies of all stored results.
func (s *Service) List(_ context.Context) ([]*pipeline.Result, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*pipeline.Result, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Delete removes a result.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.results[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.results, id)
	return nil
}
