package store

import (
	"log/slog"

	"github.com/terra-clan/skillsprint/internal/models"
)

// Actions are atomic under the write lock. Events are published after the
// lock is released.

// StartTrack creates a new enrollment at stage 1. The enrollment belongs to
// the track's provider company; duplicates for the same track are allowed.
func (s *Store) StartTrack(learnerID, trackID string) models.Enrollment {
	s.mu.Lock()

	companyID := ""
	if i, ok := s.trackByID[trackID]; ok {
		companyID = s.tracks[i].ProviderCompanyID
	}

	e := &models.Enrollment{
		ID:               newID("enroll"),
		LearnerID:        learnerID,
		CompanyID:        companyID,
		TrackID:          trackID,
		StageNum:         1,
		Status:           models.EnrollmentActive,
		ProgressPct:      0,
		LastActivity:     s.now(),
		RecruiterVisible: false,
	}
	s.enrollments = append(s.enrollments, e)
	s.enrollmentByID[e.ID] = e
	out := *e

	s.mu.Unlock()

	slog.Info("track started", "enrollment_id", out.ID, "learner_id", learnerID, "track_id", trackID)
	s.Publish(Event{
		Type:         EventEnrollmentStarted,
		LearnerID:    learnerID,
		CompanyID:    companyID,
		EnrollmentID: out.ID,
		Payload:      out,
		At:           out.LastActivity,
	})
	return out
}

// CheckIn logs a study session. The record is kept even for an unknown
// enrollment; a known enrollment gains 5% progress, capped at 100.
func (s *Store) CheckIn(enrollmentID string, minutes int, note string) models.CheckIn {
	s.mu.Lock()

	now := s.now()
	c := models.CheckIn{
		ID:           newID("checkin"),
		EnrollmentID: enrollmentID,
		Minutes:      minutes,
		Note:         note,
		CreatedAt:    now,
	}
	s.checkIns = append(s.checkIns, c)

	ev := Event{Type: EventEnrollmentCheckedIn, EnrollmentID: enrollmentID, Payload: c, At: now}
	if e, ok := s.enrollmentByID[enrollmentID]; ok {
		e.LastActivity = now
		e.ProgressPct = min(e.ProgressPct+5, 100)
		ev.LearnerID = e.LearnerID
		ev.CompanyID = e.CompanyID
	}

	s.mu.Unlock()

	s.Publish(ev)
	return c
}

// SubmitStageCompletion advances an enrollment one stage, or completes it
// at stage 5. Reaching stage 5 makes the learner recruiter-visible.
// Returns false for an unknown enrollment.
func (s *Store) SubmitStageCompletion(enrollmentID string) (models.Enrollment, bool) {
	s.mu.Lock()

	e, ok := s.enrollmentByID[enrollmentID]
	if !ok {
		s.mu.Unlock()
		slog.Debug("stage completion for unknown enrollment ignored", "enrollment_id", enrollmentID)
		return models.Enrollment{}, false
	}

	now := s.now()
	evType := EventEnrollmentStageCompleted
	if e.StageNum >= models.StageCount {
		e.StageNum = models.StageCount
		e.Status = models.EnrollmentCompleted
		e.ProgressPct = 100
		e.RecruiterVisible = true
		evType = EventEnrollmentCompleted
	} else {
		old := e.StageNum
		e.StageNum = old + 1
		e.ProgressPct = min(e.StageNum*20, 100)
		e.RecruiterVisible = old >= models.StageCount-1
	}
	e.LastActivity = now
	out := *e

	s.mu.Unlock()

	slog.Info("stage submitted",
		"enrollment_id", out.ID,
		"stage_num", out.StageNum,
		"status", out.Status,
		"recruiter_visible", out.RecruiterVisible,
	)
	s.Publish(Event{
		Type:         evType,
		LearnerID:    out.LearnerID,
		CompanyID:    out.CompanyID,
		EnrollmentID: out.ID,
		Payload:      out,
		At:           now,
	})
	return out, true
}

// CompleteCourse appends a scored course completion. The score is stored as
// given and repeated completions all count toward the average.
func (s *Store) CompleteCourse(learnerID, courseID string, score int) models.CourseCompletion {
	s.mu.Lock()

	c := models.CourseCompletion{
		ID:          newID("comp"),
		LearnerID:   learnerID,
		CourseID:    courseID,
		Score:       score,
		CompletedAt: s.now(),
	}
	s.completions = append(s.completions, c)

	s.mu.Unlock()

	s.Publish(Event{Type: EventCourseCompleted, LearnerID: learnerID, Payload: c, At: c.CompletedAt})
	return c
}

// UpdateResume replaces a learner's resume; false for an unknown learner
func (s *Store) UpdateResume(learnerID string, resume models.Resume) bool {
	s.mu.Lock()

	l, ok := s.learnerByID[learnerID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	l.Resume = resume.Normalized()
	updated := l.Resume.Normalized()

	s.mu.Unlock()

	s.Publish(Event{Type: EventResumeUpdated, LearnerID: learnerID, Payload: updated})
	return true
}

// RequestOutreach sends a message from a company to a learner. With
// visibility enforced, the learner needs a recruiter-visible enrollment.
func (s *Store) RequestOutreach(companyID, learnerID, message string) (models.OutreachMessage, error) {
	s.mu.Lock()

	if s.requireVisibility && !s.isVisible(learnerID) {
		s.mu.Unlock()
		slog.Warn("outreach rejected", "company_id", companyID, "learner_id", learnerID)
		return models.OutreachMessage{}, ErrLearnerNotVisible
	}

	m := models.OutreachMessage{
		ID:            newID("msg"),
		FromCompanyID: companyID,
		ToLearnerID:   learnerID,
		Message:       message,
		CreatedAt:     s.now(),
	}
	s.outreach = append(s.outreach, m)

	s.mu.Unlock()

	s.Publish(Event{
		Type:      EventOutreachSent,
		LearnerID: learnerID,
		CompanyID: companyID,
		Payload:   m,
		At:        m.CreatedAt,
	})
	return m, nil
}

// IsRecruiterVisible reports whether any of the learner's enrollments is
// visible to recruiters
func (s *Store) IsRecruiterVisible(learnerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isVisible(learnerID)
}

func (s *Store) isVisible(learnerID string) bool {
	for _, e := range s.enrollments {
		if e.LearnerID == learnerID && e.RecruiterVisible {
			return true
		}
	}
	return false
}
