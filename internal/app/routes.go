package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Burn series
	r.HandleFunc("/api/burn", deps.BurnHandler.GetBurnSeries).Methods("GET", "OPTIONS")

	// Sprints
	if deps.SprintHandler != nil {
		r.HandleFunc("/api/sprint", deps.SprintHandler.ListSprints).Methods("GET", "OPTIONS")
		r.HandleFunc("/api/sprint", deps.SprintHandler.CreateSprint).Methods("POST", "OPTIONS")
		r.HandleFunc("/api/sprint/{sprintUid}", deps.SprintHandler.GetSprint).Methods("GET", "OPTIONS")
		r.HandleFunc("/api/sprint/{sprintUid}", deps.SprintHandler.UpdateSprint).Methods("PUT", "OPTIONS")
		r.HandleFunc("/api/sprint/{sprintUid}", deps.SprintHandler.DeleteSprint).Methods("DELETE", "OPTIONS")
		r.HandleFunc("/api/sprint/{sprintUid}/burn", deps.SprintHandler.GetSprintBurn).Methods("GET", "OPTIONS")
	}
}
