package sprint

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// uidColumnCheck fails like the UUID column does for malformed input.
func uidColumnCheck(uid string) error {
	if _, err := uuid.Parse(uid); err != nil {
		return fmt.Errorf("invalid input syntax for type uuid: %q", uid)
	}
	return nil
}

type RepositoryStub struct {
	mu      sync.Mutex
	nextId  int
	sprints map[string]Sprint
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{sprints: make(map[string]Sprint)}
}

func (s *RepositoryStub) Create(ctx context.Context, sprint Sprint) (Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	sprint.Id = s.nextId
	s.sprints[sprint.Uid] = sprint
	return sprint, nil
}

func (s *RepositoryStub) Get(ctx context.Context, uid string) (Sprint, error) {
	if err := uidColumnCheck(uid); err != nil {
		return Sprint{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sprint, exists := s.sprints[uid]
	if !exists {
		return Sprint{}, ErrSprintNotFound
	}
	return sprint, nil
}

func (s *RepositoryStub) List(ctx context.Context) ([]Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Sprint, 0, len(s.sprints))
	for _, sprint := range s.sprints {
		result = append(result, sprint)
	}
	slices.SortFunc(result, func(a, b Sprint) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return result, nil
}

func (s *RepositoryStub) Update(ctx context.Context, sprint Sprint) (Sprint, error) {
	if err := uidColumnCheck(sprint.Uid); err != nil {
		return Sprint{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.sprints[sprint.Uid]
	if !exists {
		return Sprint{}, ErrSprintNotFound
	}
	sprint.Id = stored.Id
	s.sprints[sprint.Uid] = sprint
	return sprint, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, uid string) (bool, error) {
	if err := uidColumnCheck(uid); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sprints[uid]; !exists {
		return false, nil
	}
	delete(s.sprints, uid)
	return true, nil
}
