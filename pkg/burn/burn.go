package burn

import (
	"errors"
	"fmt"
)

// DoneStatus is the only status counted as completed work.
const DoneStatus = "Pronto"

// MaxRangeDays caps the reporting range so a malformed request cannot
// allocate an unbounded series.
const MaxRangeDays = 3660

var ErrInvalidStoryPoints = errors.New("invalid story points")
var ErrRangeTooLong = errors.New("date range too long")

// WorkItem is a single card as delivered by an item source.
type WorkItem struct {
	StoryPoints float64
	Status      string
	// ResolutionDate is nil when the source had no usable completion date.
	ResolutionDate *Date
}

func (w WorkItem) IsDone() bool {
	return w.Status == DoneStatus
}

// DayRecord is one calendar day of the series. Weekend records only carry
// Date and IsWeekend.
type DayRecord struct {
	Date                Date
	IsWeekend           bool
	Ideal               *float64
	DailyCompleted      *float64
	CumulativeCompleted *float64
	Debt                *float64
	Burndown            *float64
}

// Summary holds the per-call totals derived while building a series.
type Summary struct {
	Start            Date
	End              Date
	TotalScope       float64
	TotalWorkingDays int
	Completed        float64
	Remaining        float64
}

// EngineError is returned for faults that are not part of the series
// semantics (bad input values, impossible ranges).
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("burn %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
