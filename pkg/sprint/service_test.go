package sprint

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/klokku/burnup/internal/event_bus"
	"github.com/klokku/burnup/pkg/burn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (context.Context, *ServiceImpl, *burn.ItemSourceStub) {
	source := burn.NewItemSourceStub()
	burnService := burn.NewServiceImpl(source, event_bus.NewEventBus())
	return context.Background(), NewService(NewRepositoryStub(), burnService), source
}

func sprintOf(name string, start, end burn.Date) Sprint {
	return Sprint{Name: name, StartDate: start, EndDate: end, ListId: "list-1"}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign uid", func(t *testing.T) {
		// given
		ctx, service, _ := setupService(t)

		// when
		created, err := service.Create(ctx, sprintOf("  Sprint 1 ", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 12)))

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "Sprint 1", created.Name)
		stored, err := service.Get(ctx, created.Uid)
		require.NoError(t, err)
		assert.Equal(t, created, stored)
	})

	t.Run("should reject invalid sprints", func(t *testing.T) {
		ctx, service, _ := setupService(t)
		tests := []struct {
			name   string
			sprint Sprint
		}{
			{"missing name", sprintOf(" ", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 12))},
			{"missing start", sprintOf("S", burn.Date{}, burn.NewDate(2024, 1, 12))},
			{"end before start", sprintOf("S", burn.NewDate(2024, 1, 12), burn.NewDate(2024, 1, 1))},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// when
				_, err := service.Create(ctx, tt.sprint)

				// then
				assert.ErrorIs(t, err, ErrInvalidSprint)
			})
		}
	})

	t.Run("should accept single day sprint", func(t *testing.T) {
		// given
		ctx, service, _ := setupService(t)
		day := burn.NewDate(2024, 1, 3)

		// when
		_, err := service.Create(ctx, sprintOf("Hotfix", day, day))

		// then
		assert.NoError(t, err)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update stored sprint", func(t *testing.T) {
		// given
		ctx, service, _ := setupService(t)
		created, err := service.Create(ctx, sprintOf("Sprint 1", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 12)))
		require.NoError(t, err)
		created.EndDate = burn.NewDate(2024, 1, 19)

		// when
		updated, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		assert.Equal(t, burn.NewDate(2024, 1, 19), updated.EndDate)
		assert.Equal(t, created.Id, updated.Id)
	})

	t.Run("should fail for unknown sprint", func(t *testing.T) {
		// given
		ctx, service, _ := setupService(t)
		sprint := sprintOf("Ghost", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 2))
		sprint.Uid = uuid.NewString()

		// when
		_, err := service.Update(ctx, sprint)

		// then
		assert.ErrorIs(t, err, ErrSprintNotFound)
	})
}

func TestServiceImpl_List(t *testing.T) {
	// given
	ctx, service, _ := setupService(t)
	_, err := service.Create(ctx, sprintOf("Second", burn.NewDate(2024, 1, 15), burn.NewDate(2024, 1, 26)))
	require.NoError(t, err)
	_, err = service.Create(ctx, sprintOf("First", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 12)))
	require.NoError(t, err)

	// when
	sprints, err := service.List(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, sprints, 2)
	assert.Equal(t, "First", sprints[0].Name)
	assert.Equal(t, "Second", sprints[1].Name)
}

func TestServiceImpl_GetBurn(t *testing.T) {
	t.Run("should compute series over sprint range and list", func(t *testing.T) {
		// given
		ctx, service, source := setupService(t)
		done := burn.NewDate(2024, 1, 2)
		source.SetItems(
			burn.WorkItem{StoryPoints: 5, Status: burn.DoneStatus, ResolutionDate: &done},
			burn.WorkItem{StoryPoints: 3, Status: "In Progress"},
		)
		created, err := service.Create(ctx, sprintOf("Sprint 1", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 3)))
		require.NoError(t, err)

		// when
		days, err := service.GetBurn(ctx, created.Uid, "token")

		// then
		require.NoError(t, err)
		require.Len(t, days, 3)
		assert.Equal(t, burn.NewDate(2024, 1, 1), days[0].Date)
		require.NotNil(t, days[1].CumulativeCompleted)
		assert.Equal(t, 5.0, *days[1].CumulativeCompleted)
		queries := source.Queries()
		require.Len(t, queries, 1)
		assert.Equal(t, burn.Query{Token: "token", ListId: "list-1"}, queries[0])
	})

	t.Run("should fail for unknown sprint", func(t *testing.T) {
		// given
		ctx, service, source := setupService(t)

		// when
		_, err := service.GetBurn(ctx, uuid.NewString(), "")

		// then
		assert.ErrorIs(t, err, ErrSprintNotFound)
		assert.Empty(t, source.Queries())
	})
}

func TestServiceImpl_MalformedUid(t *testing.T) {
	// given
	ctx, service, _ := setupService(t)

	// when
	_, getErr := service.Get(ctx, "foo")
	_, burnErr := service.GetBurn(ctx, "foo", "token")
	deleted, deleteErr := service.Delete(ctx, "foo")

	// then
	assert.ErrorIs(t, getErr, ErrSprintNotFound)
	assert.ErrorIs(t, burnErr, ErrSprintNotFound)
	require.NoError(t, deleteErr)
	assert.False(t, deleted)
}

func TestServiceImpl_Delete(t *testing.T) {
	// given
	ctx, service, _ := setupService(t)
	created, err := service.Create(ctx, sprintOf("Sprint 1", burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 12)))
	require.NoError(t, err)

	// when
	deleted, err := service.Delete(ctx, created.Uid)
	deletedAgain, errAgain := service.Delete(ctx, created.Uid)

	// then
	require.NoError(t, err)
	require.NoError(t, errAgain)
	assert.True(t, deleted)
	assert.False(t, deletedAgain)
}
