package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Catalog handlers. The catalog is read-only.

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.ListCompanies())
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.store.GetCompanyByID(id)
	if !ok {
		respondNotFound(w, "company", id)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.ListCourses())
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.store.GetCourseByID(id)
	if !ok {
		respondNotFound(w, "course", id)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.ListTracks())
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.store.GetTrackByID(id)
	if !ok {
		respondNotFound(w, "track", id)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleTrackStages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetStagesByTrackID(chi.URLParam(r, "id")))
}

func (s *Server) handleTrackEnrollments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.GetEnrollmentsByTrackID(chi.URLParam(r, "id")))
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := s.store.GetStageByID(id)
	if !ok {
		respondNotFound(w, "stage", id)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.ListJobs())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, ok := s.store.GetJobByID(id)
	if !ok {
		respondNotFound(w, "job", id)
		return
	}
	respondJSON(w, http.StatusOK, j)
}

func (s *Server) handleJobCandidates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.EligibleCandidates(chi.URLParam(r, "id")))
}
