package sprint

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, sprint Sprint) (Sprint, error)
	Get(ctx context.Context, uid string) (Sprint, error)
	List(ctx context.Context) ([]Sprint, error)
	Update(ctx context.Context, sprint Sprint) (Sprint, error)
	Delete(ctx context.Context, uid string) (bool, error)
	// GetBurn computes the sprint's series; token is passed through to the item source.
	GetBurn(ctx context.Context, uid string, token string) ([]burn.DayRecord, error)
}

type ServiceImpl struct {
	repo        Repository
	burnService burn.Service
}

func NewService(repo Repository, burnService burn.Service) *ServiceImpl {
	return &ServiceImpl{repo: repo, burnService: burnService}
}

func (s *ServiceImpl) Create(ctx context.Context, sprint Sprint) (Sprint, error) {
	if err := validate(sprint); err != nil {
		return Sprint{}, err
	}
	sprint.Name = strings.TrimSpace(sprint.Name)
	sprint.Uid = uuid.NewString()
	created, err := s.repo.Create(ctx, sprint)
	if err != nil {
		return Sprint{}, err
	}
	log.Debugf("Created sprint %s (%s..%s)", created.Uid, created.StartDate, created.EndDate)
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, uid string) (Sprint, error) {
	if err := checkUid(uid); err != nil {
		return Sprint{}, err
	}
	return s.repo.Get(ctx, uid)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Sprint, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Update(ctx context.Context, sprint Sprint) (Sprint, error) {
	if err := validate(sprint); err != nil {
		return Sprint{}, err
	}
	if err := checkUid(sprint.Uid); err != nil {
		return Sprint{}, err
	}
	sprint.Name = strings.TrimSpace(sprint.Name)
	return s.repo.Update(ctx, sprint)
}

func (s *ServiceImpl) Delete(ctx context.Context, uid string) (bool, error) {
	if checkUid(uid) != nil {
		return false, nil
	}
	return s.repo.Delete(ctx, uid)
}

func (s *ServiceImpl) GetBurn(ctx context.Context, uid string, token string) ([]burn.DayRecord, error) {
	sprint, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.burnService.GetBurnSeries(ctx, burn.Request{
		Start: sprint.StartDate,
		End:   sprint.EndDate,
		Query: burn.Query{Token: token, ListId: sprint.ListId},
	})
}

// checkUid reports a uid that is not a UUID as an unknown sprint; no stored
// sprint can have it.
func checkUid(uid string) error {
	if _, err := uuid.Parse(uid); err != nil {
		return fmt.Errorf("%w: %q", ErrSprintNotFound, uid)
	}
	return nil
}

func validate(sprint Sprint) error {
	if strings.TrimSpace(sprint.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSprint)
	}
	if sprint.StartDate.IsZero() || sprint.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidSprint)
	}
	if sprint.EndDate.Before(sprint.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidSprint, sprint.EndDate, sprint.StartDate)
	}
	return nil
}
