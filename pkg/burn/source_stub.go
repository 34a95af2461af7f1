package burn

import (
	"context"
	"sync"
)

// ItemSourceStub serves a fixed item list and records the queries it received.
type ItemSourceStub struct {
	mu      sync.Mutex
	items   []WorkItem
	err     error
	queries []Query
}

func NewItemSourceStub(items ...WorkItem) *ItemSourceStub {
	return &ItemSourceStub{items: items}
}

func (s *ItemSourceStub) FetchItems(ctx context.Context, query Query) ([]WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	result := make([]WorkItem, len(s.items))
	copy(result, s.items)
	return result, nil
}

func (s *ItemSourceStub) SetItems(items ...WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *ItemSourceStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *ItemSourceStub) Queries() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Query, len(s.queries))
	copy(result, s.queries)
	return result
}
