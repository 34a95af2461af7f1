package burn

import (
	"fmt"
	"math"
	"slices"
)

type completedBucket struct {
	daily      float64
	cumulative float64
}

// ComputeBurnSeries builds the day-by-day series for [start, end]. An end
// before start yields an empty series. Items are not modified.
func ComputeBurnSeries(items []WorkItem, start Date, end Date) ([]DayRecord, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return []DayRecord{}, nil
	}
	if start.DaysUntil(end) >= MaxRangeDays {
		return nil, &EngineError{
			Op:  "skeleton",
			Err: fmt.Errorf("%w: %s..%s exceeds %d days", ErrRangeTooLong, start, end, MaxRangeDays),
		}
	}

	totalScope := TotalScope(items)
	days := buildSkeleton(start, end)
	applyIdeal(days, totalScope, countWorkingDays(days))
	applyCompleted(days, bucketCompleted(items))
	applyDebt(days)
	applyBurndown(days, totalScope)
	return days, nil
}

// TotalScope sums story points over every item, done or not.
func TotalScope(items []WorkItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.StoryPoints
	}
	return total
}

// WorkingDays counts the non-weekend days in [start, end].
func WorkingDays(start Date, end Date) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if !d.IsWeekend() {
			count++
		}
	}
	return count
}

// Summarize reports the totals behind a series computed from items.
func Summarize(items []WorkItem, days []DayRecord) Summary {
	summary := Summary{
		TotalScope:       TotalScope(items),
		TotalWorkingDays: countWorkingDays(days),
	}
	if len(days) == 0 {
		summary.Remaining = summary.TotalScope
		return summary
	}
	summary.Start = days[0].Date
	summary.End = days[len(days)-1].Date
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].CumulativeCompleted != nil {
			summary.Completed = *days[i].CumulativeCompleted
			break
		}
	}
	summary.Remaining = summary.TotalScope - summary.Completed
	return summary
}

func validateItems(items []WorkItem) error {
	for i, item := range items {
		p := item.StoryPoints
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return &EngineError{
				Op:  "scope",
				Err: fmt.Errorf("%w: item %d has %v", ErrInvalidStoryPoints, i, p),
			}
		}
	}
	return nil
}

func buildSkeleton(start Date, end Date) []DayRecord {
	days := make([]DayRecord, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, DayRecord{Date: d, IsWeekend: d.IsWeekend()})
	}
	return days
}

func countWorkingDays(days []DayRecord) int {
	count := 0
	for _, day := range days {
		if !day.IsWeekend {
			count++
		}
	}
	return count
}

// applyIdeal spreads the scope linearly over working days, rounding half
// away from zero. With no working days nothing is assigned.
func applyIdeal(days []DayRecord, totalScope float64, workingDays int) {
	if workingDays == 0 {
		return
	}
	seen := 0
	for i := range days {
		if days[i].IsWeekend {
			continue
		}
		seen++
		days[i].Ideal = ptr(math.Round(totalScope / float64(workingDays) * float64(seen)))
	}
}

// bucketCompleted groups done items with a known date by day. The cumulative
// figure of a day covers every done item resolved on or before it.
func bucketCompleted(items []WorkItem) map[Date]completedBucket {
	completed := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if item.IsDone() && item.ResolutionDate != nil {
			completed = append(completed, item)
		}
	}
	slices.SortStableFunc(completed, func(a, b WorkItem) int {
		return a.ResolutionDate.Compare(*b.ResolutionDate)
	})

	buckets := make(map[Date]completedBucket)
	running := 0.0
	for i := 0; i < len(completed); {
		day := *completed[i].ResolutionDate
		daily := 0.0
		for ; i < len(completed) && *completed[i].ResolutionDate == day; i++ {
			daily += completed[i].StoryPoints
		}
		running += daily
		buckets[day] = completedBucket{daily: daily, cumulative: running}
	}
	return buckets
}

// applyCompleted sets daily and cumulative completion on working days. Days
// without a bucket get 0 daily but do not reset cumulative to 0: they keep
// the cumulative reached so far, which includes work resolved before the
// range or on a weekend. A zero-filling implementation would show dips to 0
// on such days; this series never decreases.
func applyCompleted(days []DayRecord, buckets map[Date]completedBucket) {
	if len(days) == 0 {
		return
	}
	sorted := make([]Date, 0, len(buckets))
	for d := range buckets {
		sorted = append(sorted, d)
	}
	slices.SortFunc(sorted, Date.Compare)

	next := 0
	cumulative := 0.0
	for i := range days {
		for next < len(sorted) && !sorted[next].After(days[i].Date) {
			cumulative = buckets[sorted[next]].cumulative
			next++
		}
		if days[i].IsWeekend {
			continue
		}
		days[i].DailyCompleted = ptr(buckets[days[i].Date].daily)
		days[i].CumulativeCompleted = ptr(cumulative)
	}
}

// applyDebt compares each working day's ideal with the cumulative completion
// of the next working day. When no working day follows, the day's own
// cumulative value is used.
func applyDebt(days []DayRecord) {
	nextWorking := make([]int, len(days))
	following := -1
	for i := len(days) - 1; i >= 0; i-- {
		nextWorking[i] = following
		if !days[i].IsWeekend {
			following = i
		}
	}

	for i := range days {
		if days[i].IsWeekend {
			continue
		}
		j := nextWorking[i]
		if j < 0 {
			j = i
		}
		days[i].Debt = ptr(value(days[i].Ideal) - value(days[j].CumulativeCompleted))
	}
}

func applyBurndown(days []DayRecord, totalScope float64) {
	for i := range days {
		if days[i].IsWeekend {
			continue
		}
		days[i].Burndown = ptr(totalScope - value(days[i].CumulativeCompleted))
	}
}

func ptr(v float64) *float64 {
	return &v
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
