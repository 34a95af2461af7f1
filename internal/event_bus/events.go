package event_bus

import "time"

const BurnSeriesComputedType EventType = "burn.series.computed"

// BurnSeriesComputed is published after a series has been built for a request.
type BurnSeriesComputed struct {
	Start            time.Time
	End              time.Time
	ListId           string
	TotalScope       float64
	TotalWorkingDays int
	Completed        float64
	Remaining        float64
	Days             int
}
