package clickup

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/klokku/burnup/internal/config"
	"github.com/klokku/burnup/pkg/burn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSource(t *testing.T, cfg config.ClickUpSource) (*Source, *ClientStub) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	stub := NewClientStub()
	return NewSource(stub, cfg, loc), stub
}

func millis(t time.Time) *string {
	s := strconv.FormatInt(t.UnixMilli(), 10)
	return &s
}

func points(p float64) *float64 {
	return &p
}

func TestSource_FetchItems(t *testing.T) {
	t.Run("should map tasks to work items", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1"})
		// 23:30 UTC on the 2nd is already the 3rd in Warsaw
		doneAt := time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC)
		stub.SetPage("list-1", 0, true,
			Task{Id: "t1", Points: points(5), Status: TaskStatus{Status: "complete", Type: "closed"}, DateDone: millis(doneAt)},
			Task{Id: "t2", Points: points(3), Status: TaskStatus{Status: "in progress", Type: "custom"}},
			Task{Id: "t3", Status: TaskStatus{Status: "to do", Type: "open"}},
		)

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, 5.0, items[0].StoryPoints)
		assert.Equal(t, burn.DoneStatus, items[0].Status)
		require.NotNil(t, items[0].ResolutionDate)
		assert.Equal(t, burn.NewDate(2024, 1, 3), *items[0].ResolutionDate)
		assert.Equal(t, "in progress", items[1].Status)
		assert.Nil(t, items[1].ResolutionDate)
		assert.Equal(t, 0.0, items[2].StoryPoints)
	})

	t.Run("should fall back to closed date", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1"})
		closedAt := time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)
		stub.SetPage("list-1", 0, true,
			Task{Id: "t1", Points: points(2), Status: TaskStatus{Status: "shipped", Type: "done"}, DateClosed: millis(closedAt)},
		)

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, burn.DoneStatus, items[0].Status)
		assert.Equal(t, burn.NewDate(2024, 1, 4), *items[0].ResolutionDate)
	})

	t.Run("should ignore unreadable dates", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1"})
		bad := "yesterday"
		stub.SetPage("list-1", 0, true,
			Task{Id: "t1", Points: points(2), Status: TaskStatus{Status: "complete", Type: "closed"}, DateDone: &bad},
		)

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		require.NoError(t, err)
		assert.Nil(t, items[0].ResolutionDate)
	})

	t.Run("should read pages until last page", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1"})
		stub.SetPage("list-1", 0, false, Task{Id: "t1", Points: points(1)})
		stub.SetPage("list-1", 1, false, Task{Id: "t2", Points: points(2)})
		stub.SetPage("list-1", 2, true, Task{Id: "t3", Points: points(3)})

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, 3, stub.RequestCount())
	})

	t.Run("should stop at page limit", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1", PageLimit: 2})
		stub.SetPage("list-1", 0, false, Task{Id: "t1"})
		stub.SetPage("list-1", 1, false, Task{Id: "t2"})
		stub.SetPage("list-1", 2, true, Task{Id: "t3"})

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, 2, stub.RequestCount())
	})

	t.Run("should prefer query token and list", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "configured", ListId: "list-1"})
		stub.SetPage("list-2", 0, true, Task{Id: "t1", Points: points(8)})

		// when
		items, err := source.FetchItems(context.Background(), burn.Query{Token: "caller", ListId: "list-2"})

		// then
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 8.0, items[0].StoryPoints)
		assert.Equal(t, "caller", stub.requests[0].token)
	})

	t.Run("should require a token", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{ListId: "list-1"})

		// when
		_, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		assert.ErrorIs(t, err, burn.ErrSourceUnauthenticated)
		assert.Equal(t, 0, stub.RequestCount())
	})

	t.Run("should require a list", func(t *testing.T) {
		// given
		source, _ := setupSource(t, config.ClickUpSource{Token: "token"})

		// when
		_, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		assert.ErrorIs(t, err, ErrListNotConfigured)
	})

	t.Run("should return client error", func(t *testing.T) {
		// given
		source, stub := setupSource(t, config.ClickUpSource{Token: "token", ListId: "list-1"})
		clientErr := errors.New("connection reset")
		stub.SetError(clientErr)

		// when
		_, err := source.FetchItems(context.Background(), burn.Query{})

		// then
		assert.ErrorIs(t, err, clientErr)
	})
}
