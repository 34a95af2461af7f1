package clickup

import (
	"context"
	"sync"
)

type pageKey struct {
	listId string
	page   int
}

type ClientStub struct {
	mu       sync.RWMutex
	pages    map[pageKey]TasksPage
	requests []pageRequest
	err      error
}

type pageRequest struct {
	token  string
	listId string
	page   int
}

func NewClientStub() *ClientStub {
	return &ClientStub{pages: make(map[pageKey]TasksPage)}
}

func (c *ClientStub) GetListTasks(ctx context.Context, token string, listId string, page int) (TasksPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, pageRequest{token: token, listId: listId, page: page})

	if c.err != nil {
		return TasksPage{}, c.err
	}
	if token == "" {
		return TasksPage{}, ErrUnauthenticated
	}
	stored, exists := c.pages[pageKey{listId: listId, page: page}]
	if !exists {
		return TasksPage{Tasks: []Task{}, LastPage: true}, nil
	}
	result := TasksPage{Tasks: make([]Task, len(stored.Tasks)), LastPage: stored.LastPage}
	copy(result.Tasks, stored.Tasks)
	return result, nil
}

// Helper methods for test setup

func (c *ClientStub) SetPage(listId string, page int, lastPage bool, tasks ...Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := TasksPage{Tasks: make([]Task, len(tasks)), LastPage: lastPage}
	copy(stored.Tasks, tasks)
	c.pages[pageKey{listId: listId, page: page}] = stored
}

func (c *ClientStub) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *ClientStub) RequestCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.requests)
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[pageKey]TasksPage)
	c.requests = nil
	c.err = nil
}
