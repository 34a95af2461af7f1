package sprint

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/burnup/internal/rest"
	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
)

type SprintDTO struct {
	Uid       string    `json:"uid,omitempty"`
	Name      string    `json:"name"`
	StartDate burn.Date `json:"startDate"`
	EndDate   burn.Date `json:"endDate"`
	ListId    string    `json:"listId,omitempty"`
}

type Handler struct {
	service  Service
	renderer burn.SeriesRenderer
}

func NewHandler(service Service, renderer burn.SeriesRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// ListSprints godoc
// @Summary List sprints
// @Tags Sprint
// @Produce json
// @Success 200 {array} SprintDTO
// @Router /api/sprint [get]
func (h *Handler) ListSprints(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing sprints")
	sprints, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list sprints", err.Error())
		return
	}
	dtos := make([]SprintDTO, 0, len(sprints))
	for _, sprint := range sprints {
		dtos = append(dtos, toDTO(sprint))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSprint godoc
// @Summary Create a sprint
// @Tags Sprint
// @Accept json
// @Produce json
// @Param sprint body SprintDTO true "Sprint"
// @Success 201 {object} SprintDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/sprint [post]
func (h *Handler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating sprint")
	var dto SprintDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), fromDTO(dto))
	if err != nil {
		writeSprintError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(created))
}

// GetSprint godoc
// @Summary Get a sprint
// @Tags Sprint
// @Produce json
// @Param sprintUid path string true "Sprint UID"
// @Success 200 {object} SprintDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/sprint/{sprintUid} [get]
func (h *Handler) GetSprint(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["sprintUid"]
	sprint, err := h.service.Get(r.Context(), uid)
	if err != nil {
		writeSprintError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(sprint))
}

// UpdateSprint godoc
// @Summary Update a sprint
// @Tags Sprint
// @Accept json
// @Produce json
// @Param sprintUid path string true "Sprint UID"
// @Param sprint body SprintDTO true "Sprint"
// @Success 200 {object} SprintDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/sprint/{sprintUid} [put]
func (h *Handler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["sprintUid"]
	var dto SprintDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if dto.Uid != "" && dto.Uid != uid {
		rest.WriteError(w, http.StatusBadRequest, "Invalid sprint uid in request body", "")
		return
	}
	dto.Uid = uid
	updated, err := h.service.Update(r.Context(), fromDTO(dto))
	if err != nil {
		writeSprintError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(updated))
}

// DeleteSprint godoc
// @Summary Delete a sprint
// @Tags Sprint
// @Param sprintUid path string true "Sprint UID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/sprint/{sprintUid} [delete]
func (h *Handler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["sprintUid"]
	deleted, err := h.service.Delete(r.Context(), uid)
	if err != nil {
		writeSprintError(w, err)
		return
	}
	if !deleted {
		rest.WriteError(w, http.StatusNotFound, ErrSprintNotFound.Error(), uid)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSprintBurn godoc
// @Summary Burn-up/burndown series of a sprint
// @Tags Sprint
// @Produce json,text/csv
// @Param sprintUid path string true "Sprint UID"
// @Success 200 {array} burn.DayRecordDTO
// @Failure 401 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Failure 502 {object} rest.ErrorResponse
// @Router /api/sprint/{sprintUid}/burn [get]
func (h *Handler) GetSprintBurn(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["sprintUid"]
	days, err := h.service.GetBurn(r.Context(), uid, r.Header.Get(burn.SourceTokenHeader))
	if err != nil {
		if errors.Is(err, ErrSprintNotFound) {
			writeSprintError(w, err)
			return
		}
		burn.WriteServiceError(w, err)
		return
	}
	burn.WriteSeries(w, r, days, h.renderer)
}

func writeSprintError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSprintNotFound):
		rest.WriteError(w, http.StatusNotFound, "Sprint not found", err.Error())
	case errors.Is(err, ErrInvalidSprint):
		rest.WriteError(w, http.StatusBadRequest, "Invalid sprint", err.Error())
	default:
		log.Errorf("sprint request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Sprint request failed", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to write json response: %v", err)
	}
}

func toDTO(sprint Sprint) SprintDTO {
	return SprintDTO{
		Uid:       sprint.Uid,
		Name:      sprint.Name,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		ListId:    sprint.ListId,
	}
}

func fromDTO(dto SprintDTO) Sprint {
	return Sprint{
		Uid:       dto.Uid,
		Name:      dto.Name,
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		ListId:    dto.ListId,
	}
}
