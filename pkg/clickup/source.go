package clickup

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/klokku/burnup/internal/config"
	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
)

var ErrListNotConfigured = errors.New("no ClickUp list configured")

const (
	statusTypeClosed = "closed"
	statusTypeDone   = "done"
)

// Source reads a ClickUp list as burn work items. Query fields override the
// configured token and list.
type Source struct {
	client    Client
	token     string
	listId    string
	pageLimit int
	location  *time.Location
}

func NewSource(client Client, cfg config.ClickUpSource, location *time.Location) *Source {
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 100
	}
	return &Source{
		client:    client,
		token:     cfg.Token,
		listId:    cfg.ListId,
		pageLimit: pageLimit,
		location:  location,
	}
}

func (s *Source) FetchItems(ctx context.Context, query burn.Query) ([]burn.WorkItem, error) {
	token := query.Token
	if token == "" {
		token = s.token
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}
	listId := query.ListId
	if listId == "" {
		listId = s.listId
	}
	if listId == "" {
		return nil, ErrListNotConfigured
	}

	items := make([]burn.WorkItem, 0)
	for page := 0; page < s.pageLimit; page++ {
		result, err := s.client.GetListTasks(ctx, token, listId, page)
		if err != nil {
			log.Errorf("failed to fetch page %d of ClickUp list %s: %v", page, listId, err)
			return nil, err
		}
		for _, task := range result.Tasks {
			items = append(items, s.toWorkItem(task))
		}
		if result.LastPage || len(result.Tasks) == 0 {
			log.Debugf("Fetched %d tasks from ClickUp list %s in %d pages", len(items), listId, page+1)
			return items, nil
		}
	}
	log.Warnf("ClickUp list %s has more than %d pages, ignoring the rest", listId, s.pageLimit)
	return items, nil
}

func (s *Source) toWorkItem(task Task) burn.WorkItem {
	item := burn.WorkItem{Status: task.Status.Status}
	if task.Points != nil {
		item.StoryPoints = *task.Points
	}
	if isDoneType(task.Status.Type) {
		item.Status = burn.DoneStatus
	}

	resolved := task.DateDone
	if resolved == nil || *resolved == "" {
		resolved = task.DateClosed
	}
	if date, ok := epochMillisToDate(resolved, s.location); ok {
		item.ResolutionDate = &date
	} else if resolved != nil && *resolved != "" {
		log.Warnf("task %s has unreadable resolution date %q", task.Id, *resolved)
	}
	return item
}

func isDoneType(statusType string) bool {
	return statusType == statusTypeClosed || statusType == statusTypeDone
}

func epochMillisToDate(value *string, loc *time.Location) (burn.Date, bool) {
	if value == nil || *value == "" {
		return burn.Date{}, false
	}
	millis, err := strconv.ParseInt(*value, 10, 64)
	if err != nil {
		return burn.Date{}, false
	}
	return burn.DateOf(time.UnixMilli(millis).In(loc)), true
}
