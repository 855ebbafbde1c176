package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/skillsprint/internal/models"
)

// Learner handlers

type startTrackRequest struct {
	TrackID string `json:"trackId"`
}

type completeCourseRequest struct {
	CourseID string `json:"courseId"`
	Score    int    `json:"score"`
}

type avgScoreResponse struct {
	LearnerID string                 `json:"learnerId"`
	AvgScore  int                    `json:"avgScore"`
	Tier      models.PerformanceTier `json:"tier"`
}

func (s *Server) handleListLearners(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.ListLearners())
}

func (s *Server) handleGetLearner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, ok := s.store.GetLearnerByID(id)
	if !ok {
		respondNotFound(w, "learner", id)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) handleLearnerSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sum, ok := s.store.LearnerSummary(id)
	if !ok {
		respondNotFound(w, "learner", id)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

func (s *Server) handleLearnerSkills(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetLearnerAllSkills(chi.URLParam(r, "id")))
}

func (s *Server) handleLearnerSkillsProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetLearnerSkillsProfile(chi.URLParam(r, "id")))
}

func (s *Server) handleLearnerAvgScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	avg := s.store.GetLearnerAvgScore(id)
	respondJSON(w, http.StatusOK, avgScoreResponse{
		LearnerID: id,
		AvgScore:  avg,
		Tier:      s.store.PerformanceTierFor(avg),
	})
}

func (s *Server) handleLearnerEnrollments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetEnrollmentsByLearnerID(chi.URLParam(r, "id")))
}

func (s *Server) handleStartTrack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireActor(w, r, models.RoleLearner, id) {
		return
	}

	var req startTrackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TrackID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "trackId is required")
		return
	}

	respondJSON(w, http.StatusCreated, s.store.StartTrack(id, req.TrackID))
}

func (s *Server) handleLearnerCompletions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetCourseCompletionsByLearnerID(chi.URLParam(r, "id")))
}

func (s *Server) handleCompleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireActor(w, r, models.RoleLearner, id) {
		return
	}

	var req completeCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CourseID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "courseId is required")
		return
	}

	c := s.store.CompleteCourse(id, req.CourseID, clamp(req.Score, 0, 100))
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !requireActor(w, r, models.RoleLearner, id) {
		return
	}

	var resume models.Resume
	if !decodeBody(w, r, &resume) {
		return
	}

	if !s.store.UpdateResume(id, resume) {
		respondNotFound(w, "learner", id)
		return
	}

	l, _ := s.store.GetLearnerByID(id)
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) handleLearnerOutreach(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetOutreachMessagesByLearnerID(chi.URLParam(r, "id")))
}

func (s *Server) handleJobMatches(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.MatchJobs(chi.URLParam(r, "id")))
}
