// Package api exposes the read-only query service over the merge store plus
// operational endpoints for triggering and inspecting batch runs.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/sentimentlab/topic-pulse/internal/models"
	"github.com/sentimentlab/topic-pulse/internal/store"
)

// QueryStore is the read side of the merge store.
type QueryStore interface {
	Ready(ctx context.Context) error
	Query(ctx context.Context, filter store.Filter) ([]models.Record, error)
}

// PipelineRunner triggers batch runs and exposes the last run's report.
type PipelineRunner interface {
	Run(ctx context.Context) *models.RunReport
	LastReport() *models.RunReport
}

// Server holds the HTTP handlers for the query service.
type Server struct {
	store    QueryStore
	pipeline PipelineRunner
}

// NewServer creates a query service over the given store and pipeline.
func NewServer(queryStore QueryStore, pipeline PipelineRunner) *Server {
	return &Server{store: queryStore, pipeline: pipeline}
}

// Router wires all routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/v1/records", s.listRecords).Methods("GET")
	r.HandleFunc("/v1/runs", s.triggerRun).Methods("POST")
	r.HandleFunc("/v1/report", s.lastReport).Methods("GET")
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// listRecords returns canonical records sorted by publication date
// descending, optionally filtered by exact country and/or platform. An
// uninitialized store is a configuration fault (503), distinct from an
// empty result (200 with an empty array).
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.store.Ready(ctx); err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	filter := store.Filter{
		Country:  r.URL.Query().Get("country"),
		Platform: r.URL.Query().Get("platform"),
	}

	records, err := s.store.Query(ctx, filter)
	if err != nil {
		logrus.Errorf("Record query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) triggerRun(w http.ResponseWriter, _ *http.Request) {
	go func() {
		report := s.pipeline.Run(context.Background())
		logrus.Infof("Manually triggered run finished: %d saved", report.TotalSaved())
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Batch run triggered"})
}

func (s *Server) lastReport(w http.ResponseWriter, _ *http.Request) {
	report := s.pipeline.LastReport()
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run has completed yet"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
