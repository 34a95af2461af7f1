package clickup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.clickup.com/api/v2"

var ErrUnauthenticated = fmt.Errorf("ClickUp rejected the access token: %w", burn.ErrSourceUnauthenticated)

type TaskStatus struct {
	Status string `json:"status"`
	Type   string `json:"type"`
}

type Task struct {
	Id     string     `json:"id"`
	Name   string     `json:"name"`
	Points *float64   `json:"points"`
	Status TaskStatus `json:"status"`
	// DateDone and DateClosed are unix milliseconds as strings, null when unset.
	DateDone   *string `json:"date_done"`
	DateClosed *string `json:"date_closed"`
}

type TasksPage struct {
	Tasks    []Task `json:"tasks"`
	LastPage bool   `json:"last_page"`
}

type Client interface {
	GetListTasks(ctx context.Context, token string, listId string, page int) (TasksPage, error) // /v2/list/{list_id}/task
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. httpClient is the transport the
// token-carrying client wraps; nil means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *ClientImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientImpl{baseURL: baseURL, httpClient: httpClient}
}

// prepareClickUpClient returns an HTTP client sending token as bearer credentials
func (c *ClientImpl) prepareClickUpClient(ctx context.Context, token string) (*http.Client, error) {
	if token == "" {
		log.Debug("no ClickUp token, authentication is required")
		return nil, ErrUnauthenticated
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})), nil
}

// GetListTasks retrieves one page of a list's tasks, closed ones and subtasks included
func (c *ClientImpl) GetListTasks(ctx context.Context, token string, listId string, page int) (TasksPage, error) {
	client, err := c.prepareClickUpClient(ctx, token)
	if err != nil {
		return TasksPage{}, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("include_closed", "true")
	params.Set("subtasks", "true")
	endpoint := fmt.Sprintf("%s/list/%s/task?%s", c.baseURL, url.PathEscape(listId), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return TasksPage{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return TasksPage{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return TasksPage{}, ErrUnauthenticated
	case resp.StatusCode != http.StatusOK:
		err := fmt.Errorf("ClickUp API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return TasksPage{}, err
	}

	var response TasksPage
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return TasksPage{}, err
	}
	return response, nil
}
