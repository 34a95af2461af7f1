package burn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/klokku/burnup/internal/rest"
	"github.com/klokku/burnup/internal/utils"
	log "github.com/sirupsen/logrus"
)

// SourceTokenHeader carries the caller's credentials for the item source.
const SourceTokenHeader = "X-Source-Token"

type DayRecordDTO struct {
	Date                Date     `json:"date"`
	IsWeekend           bool     `json:"isWeekend"`
	Ideal               *float64 `json:"ideal,omitempty"`
	DailyCompleted      *float64 `json:"dailyCompleted,omitempty"`
	CumulativeCompleted *float64 `json:"cumulativeCompleted,omitempty"`
	Debt                *float64 `json:"debt,omitempty"`
	Burndown            *float64 `json:"burndown,omitempty"`
}

type Handler struct {
	service  Service
	renderer SeriesRenderer
	clock    utils.Clock
	location *time.Location
}

func NewHandler(service Service, renderer SeriesRenderer, clock utils.Clock, location *time.Location) *Handler {
	return &Handler{service: service, renderer: renderer, clock: clock, location: location}
}

// GetBurnSeries godoc
// @Summary Burn-up/burndown series
// @Description Day-by-day ideal, completed, debt and burndown values for a date range
// @Tags Burn
// @Produce json,text/csv
// @Param from query string true "First day (YYYY-MM-DD or RFC3339)"
// @Param to query string false "Last day (YYYY-MM-DD or RFC3339), defaults to today"
// @Param listId query string false "Board/list to read, defaults to the configured one"
// @Success 200 {array} DayRecordDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 401 {object} rest.ErrorResponse
// @Failure 502 {object} rest.ErrorResponse
// @Router /api/burn [get]
func (h *Handler) GetBurnSeries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Computing burn series")
	query := r.URL.Query()

	from, err := ParseDate(query.Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from date", err.Error())
		return
	}
	to := DateOf(utils.Today(h.clock, h.location))
	if toString := query.Get("to"); toString != "" {
		to, err = ParseDate(toString)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to date", err.Error())
			return
		}
	}

	days, err := h.service.GetBurnSeries(r.Context(), Request{
		Start: from,
		End:   to,
		Query: Query{
			Token:  r.Header.Get(SourceTokenHeader),
			ListId: query.Get("listId"),
		},
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSeries(w, r, days, h.renderer)
}

// WriteSeries responds with CSV when the client accepts text/csv, JSON otherwise.
func WriteSeries(w http.ResponseWriter, r *http.Request, days []DayRecord, renderer SeriesRenderer) {
	if r.Header.Get("Accept") == "text/csv" {
		body, err := renderer.RenderSeries(days)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render series", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTOs(days)); err != nil {
		log.Errorf("failed to write json response: %v", err)
	}
}

// WriteServiceError maps service failures to HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	var engineErr *EngineError
	switch {
	case errors.Is(err, ErrSourceUnauthenticated):
		rest.WriteError(w, http.StatusUnauthorized, "Item source credentials missing", err.Error())
	case errors.Is(err, ErrRangeTooLong):
		rest.WriteError(w, http.StatusBadRequest, "Date range too long", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rest.WriteError(w, http.StatusGatewayTimeout, "Item source timed out", err.Error())
	case errors.As(err, &engineErr):
		log.Errorf("burn engine failure: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to compute burn series", err.Error())
	case errors.Is(err, ErrSourceFailed):
		rest.WriteError(w, http.StatusBadGateway, "Failed to fetch work items", err.Error())
	default:
		log.Errorf("unexpected burn failure: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to compute burn series", err.Error())
	}
}

func ToDTOs(days []DayRecord) []DayRecordDTO {
	dtos := make([]DayRecordDTO, 0, len(days))
	for _, day := range days {
		dtos = append(dtos, DayRecordDTO{
			Date:                day.Date,
			IsWeekend:           day.IsWeekend,
			Ideal:               day.Ideal,
			DailyCompleted:      day.DailyCompleted,
			CumulativeCompleted: day.CumulativeCompleted,
			Debt:                day.Debt,
			Burndown:            day.Burndown,
		})
	}
	return dtos
}
