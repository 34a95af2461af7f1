package burn

import (
	"context"
	"errors"
)

var ErrSourceUnauthenticated = errors.New("item source requires credentials")
var ErrSourceFailed = errors.New("item source failed")

// Query scopes a fetch: whose credentials to use and which board or list to read.
// Empty fields fall back to the source's own configuration.
type Query struct {
	Token  string
	ListId string
}

// ItemSource delivers the work items of a board with dates already reduced
// to calendar days.
type ItemSource interface {
	FetchItems(ctx context.Context, query Query) ([]WorkItem, error)
}
