package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/skillsprint/internal/models"
	"github.com/terra-clan/skillsprint/internal/store"
)

// Recruiter dashboard handlers

type outreachRequest struct {
	LearnerID string `json:"learnerId"`
	Message   string `json:"message"`
}

func (s *Server) handleCompanyEnrollments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetEnrollmentsWithRiskByCompanyID(chi.URLParam(r, "id")))
}

func (s *Server) handleCompanySummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.CompanySummary(chi.URLParam(r, "id")))
}

func (s *Server) handleCompanyOutreach(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetOutreachMessagesByCompanyID(chi.URLParam(r, "id")))
}

func (s *Server) handleSendOutreach(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "id")
	if !requireActor(w, r, models.RoleCompany, companyID) {
		return
	}

	var req outreachRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LearnerID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "learnerId is required")
		return
	}

	msg, err := s.store.RequestOutreach(companyID, req.LearnerID, req.Message)
	if errors.Is(err, store.ErrLearnerNotVisible) {
		respondError(w, http.StatusConflict, "learner_not_visible", "learner has not reached a recruiter-visible stage")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to send outreach")
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}
