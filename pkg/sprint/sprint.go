package sprint

import (
	"errors"

	"github.com/klokku/burnup/pkg/burn"
)

var ErrSprintNotFound = errors.New("sprint not found")
var ErrInvalidSprint = errors.New("invalid sprint")

// Sprint is a named reporting range over one list.
type Sprint struct {
	Id        int
	Uid       string
	Name      string
	StartDate burn.Date
	EndDate   burn.Date
	ListId    string
}
