package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/skillsprint/internal/mentor"
	"github.com/terra-clan/skillsprint/internal/models"
)

// mentorRequest is a mentor.Request plus optional references that are
// resolved against the store when the explicit fields are empty
type mentorRequest struct {
	mentor.Request
	EnrollmentID string `json:"enrollmentId,omitempty"`
	JobID        string `json:"jobId,omitempty"`
}

type quotaResponse struct {
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Available bool `json:"available"`
}

func (s *Server) handleMentorQuota(w http.ResponseWriter, r *http.Request) {
	caller := IdentityFromContext(r.Context()).Key()

	remaining, err := s.mentor.Remaining(r.Context(), caller)
	if err != nil {
		slog.Error("failed to read mentor quota", "error", err, "caller", caller)
		respondError(w, http.StatusServiceUnavailable, "quota_unavailable", "mentor quota backend unavailable")
		return
	}

	respondJSON(w, http.StatusOK, quotaResponse{
		Limit:     s.mentor.Limit(),
		Remaining: remaining,
		Available: s.mentor.Available(),
	})
}

func (s *Server) handleMentorSuggest(w http.ResponseWriter, r *http.Request) {
	kind := mentor.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		respondError(w, http.StatusBadRequest, "unknown_kind", "unknown suggestion kind: "+string(kind))
		return
	}

	var req mentorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := IdentityFromContext(r.Context())
	s.resolveMentorRequest(kind, caller, &req)

	respondJSON(w, http.StatusOK, s.mentor.Suggest(r.Context(), caller.Key(), kind, req.Request))
}

// resolveMentorRequest fills prompt inputs from live data
func (s *Server) resolveMentorRequest(kind mentor.Kind, caller *models.Identity, req *mentorRequest) {
	switch kind {
	case mentor.KindPlan:
		if req.TrackName != "" || req.EnrollmentID == "" {
			return
		}
		e, ok := s.store.GetEnrollmentByID(req.EnrollmentID)
		if !ok {
			return
		}
		if t, ok := s.store.GetTrackByID(e.TrackID); ok {
			req.TrackName = t.Name
		}
		req.CurrentStage = e.StageNum
		req.CompletedCourses = len(s.store.GetCourseCompletionsByLearnerID(e.LearnerID))

	case mentor.KindInsights:
		if len(req.Skills) > 0 || caller.IsCompany() {
			return
		}
		sum, ok := s.store.LearnerSummary(caller.ID)
		if !ok {
			return
		}
		req.Skills = sum.AllSkills
		req.AvgScore = sum.AvgScore
		req.CompletedTracks = sum.CompletedTracks

	case mentor.KindRecommend:
		if req.JobID == "" {
			return
		}
		job, ok := s.store.GetJobByID(req.JobID)
		if !ok {
			return
		}
		if req.JobTitle == "" {
			req.JobTitle = job.Title
			req.RequiredSkills = job.RequiredSkills
		}
		if len(req.Profiles) == 0 {
			for _, c := range s.store.EligibleCandidates(job.ID) {
				req.Profiles = append(req.Profiles, mentor.Profile{
					Name:      c.Learner.Name,
					AllSkills: s.store.GetLearnerAllSkills(c.Learner.ID),
					AvgScore:  c.AvgScore,
				})
			}
		}
	}
}
