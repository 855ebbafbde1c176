package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/skillsprint/internal/models"
)

// Enrollment handlers

type checkInRequest struct {
	Minutes int    `json:"minutes"`
	Note    string `json:"note"`
}

type riskResponse struct {
	EnrollmentID string           `json:"enrollmentId"`
	Risk         models.RiskLevel `json:"risk"`
}

func (s *Server) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.GetEnrollmentByID(id)
	if !ok {
		respondNotFound(w, "enrollment", id)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) handleEnrollmentRisk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.GetEnrollmentByID(id)
	if !ok {
		respondNotFound(w, "enrollment", id)
		return
	}
	respondJSON(w, http.StatusOK, riskResponse{
		EnrollmentID: id,
		Risk:         s.store.ComputeEnrollmentRisk(*e),
	})
}

func (s *Server) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetCheckInsByEnrollmentID(chi.URLParam(r, "id")))
}

// handleCheckIn logs a study session. Check-ins against unknown enrollments
// are still recorded.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if e, ok := s.store.GetEnrollmentByID(id); ok {
		if !requireActor(w, r, models.RoleLearner, e.LearnerID) {
			return
		}
	}

	var req checkInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	minutes := req.Minutes
	if minutes < 0 {
		minutes = 0
	}

	respondJSON(w, http.StatusCreated, s.store.CheckIn(id, minutes, req.Note))
}

func (s *Server) handleCompleteStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.GetEnrollmentByID(id)
	if !ok {
		respondNotFound(w, "enrollment", id)
		return
	}
	if !requireActor(w, r, models.RoleLearner, e.LearnerID) {
		return
	}

	updated, ok := s.store.SubmitStageCompletion(id)
	if !ok {
		respondNotFound(w, "enrollment", id)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
