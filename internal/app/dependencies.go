package app

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/burnup/internal/config"
	"github.com/klokku/burnup/internal/event_bus"
	"github.com/klokku/burnup/internal/utils"
	"github.com/klokku/burnup/pkg/burn"
	"github.com/klokku/burnup/pkg/clickup"
	"github.com/klokku/burnup/pkg/sprint"
	"github.com/klokku/burnup/pkg/workitem"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	ItemSource    burn.ItemSource
	ClickUpClient clickup.Client
	BurnService   *burn.ServiceImpl
	CsvRenderer   *burn.CsvRendererImpl
	BurnHandler   *burn.Handler

	// Sprint components are nil when the database is disabled.
	SprintRepo    sprint.Repository
	SprintService *sprint.ServiceImpl
	SprintHandler *sprint.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// db may be nil.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}
	location := cfg.Source.Location()

	deps.EventBus = event_bus.NewEventBus()
	if cfg.Debug {
		event_bus.SubscribeTyped(deps.EventBus, event_bus.BurnSeriesComputedType,
			func(e event_bus.EventT[event_bus.BurnSeriesComputed]) error {
				log.WithFields(log.Fields{
					"list":        e.Data.ListId,
					"days":        e.Data.Days,
					"scope":       e.Data.TotalScope,
					"workingDays": e.Data.TotalWorkingDays,
					"completed":   e.Data.Completed,
					"remaining":   e.Data.Remaining,
				}).Debug("Burn series computed")
				return nil
			})
	}
	deps.Clock = &utils.SystemClock{}

	switch cfg.Source.Type {
	case config.SourceFile:
		deps.ItemSource = workitem.NewFileSource(cfg.Source.File.Path, location)
	default:
		if cfg.Source.Type != config.SourceClickUp {
			log.Warnf("unknown source type %q, using %s", cfg.Source.Type, config.SourceClickUp)
		}
		deps.ClickUpClient = clickup.NewClient(cfg.Source.ClickUp.BaseUrl, &http.Client{})
		deps.ItemSource = clickup.NewSource(deps.ClickUpClient, cfg.Source.ClickUp, location)
	}

	deps.BurnService = burn.NewServiceImpl(deps.ItemSource, deps.EventBus)
	deps.CsvRenderer = burn.NewCsvRenderer()
	deps.BurnHandler = burn.NewHandler(deps.BurnService, deps.CsvRenderer, deps.Clock, location)

	if db != nil {
		deps.SprintRepo = sprint.NewRepository(db)
		deps.SprintService = sprint.NewService(deps.SprintRepo, deps.BurnService)
		deps.SprintHandler = sprint.NewHandler(deps.SprintService, deps.CsvRenderer)
	}

	return deps
}
