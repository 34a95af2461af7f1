package burn

import (
	"context"
	"fmt"

	"github.com/klokku/burnup/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Request struct {
	Start Date
	End   Date
	Query Query
}

type Service interface {
	GetBurnSeries(ctx context.Context, req Request) ([]DayRecord, error)
}

type ServiceImpl struct {
	source   ItemSource
	eventBus *event_bus.EventBus
}

func NewServiceImpl(source ItemSource, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{source: source, eventBus: eventBus}
}

func (s *ServiceImpl) GetBurnSeries(ctx context.Context, req Request) ([]DayRecord, error) {
	items, err := s.source.FetchItems(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceFailed, err)
	}
	log.Debugf("Fetched %d work items for %s..%s", len(items), req.Start, req.End)

	days, err := ComputeBurnSeries(items, req.Start, req.End)
	if err != nil {
		log.Errorf("failed to compute burn series: %v", err)
		return nil, err
	}

	summary := Summarize(items, days)
	event := event_bus.NewEvent(ctx, event_bus.BurnSeriesComputedType, event_bus.BurnSeriesComputed{
		Start:            req.Start.Time(),
		End:              req.End.Time(),
		ListId:           req.Query.ListId,
		TotalScope:       summary.TotalScope,
		TotalWorkingDays: summary.TotalWorkingDays,
		Completed:        summary.Completed,
		Remaining:        summary.Remaining,
		Days:             len(days),
	})
	if err := s.eventBus.Publish(event); err != nil {
		// subscribers are observers only
		log.Warnf("burn series event not fully handled: %v", err)
	}

	return days, nil
}
