package store

import (
	"github.com/terra-clan/skillsprint/internal/models"
)

// Lookups return copies; the bool is false for an unknown id.

func (s *Store) GetCompanyByID(id string) (*models.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.companyByID[id]
	if !ok {
		return nil, false
	}
	c := s.companies[i]
	return &c, true
}

func (s *Store) GetCourseByID(id string) (*models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.courseByID[id]
	if !ok {
		return nil, false
	}
	c := copyCourse(s.courses[i])
	return &c, true
}

func (s *Store) GetTrackByID(id string) (*models.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.trackByID[id]
	if !ok {
		return nil, false
	}
	t := copyTrack(s.tracks[i])
	return &t, true
}

func (s *Store) GetStageByID(id string) (*models.Stage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stageByID[id]
	if !ok {
		return nil, false
	}
	st = copyStage(st)
	return &st, true
}

func (s *Store) GetJobByID(id string) (*models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.jobByID[id]
	if !ok {
		return nil, false
	}
	j := copyJob(s.jobs[i])
	return &j, true
}

func (s *Store) GetLearnerByID(id string) (*models.Learner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.learnerByID[id]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

func (s *Store) GetEnrollmentByID(id string) (*models.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollmentByID[id]
	if !ok {
		return nil, false
	}
	c := *e
	return &c, true
}

// GetStagesByTrackID returns the stages of a track ordered by stage number
func (s *Store) GetStagesByTrackID(trackID string) []models.Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stages := s.stagesByTrack[trackID]
	out := make([]models.Stage, 0, len(stages))
	for _, st := range stages {
		out = append(out, copyStage(st))
	}
	return out
}

func (s *Store) GetEnrollmentsByLearnerID(learnerID string) []models.Enrollment {
	return s.filterEnrollments(func(e *models.Enrollment) bool { return e.LearnerID == learnerID })
}

func (s *Store) GetEnrollmentsByCompanyID(companyID string) []models.Enrollment {
	return s.filterEnrollments(func(e *models.Enrollment) bool { return e.CompanyID == companyID })
}

func (s *Store) GetEnrollmentsByTrackID(trackID string) []models.Enrollment {
	return s.filterEnrollments(func(e *models.Enrollment) bool { return e.TrackID == trackID })
}

func (s *Store) filterEnrollments(match func(*models.Enrollment) bool) []models.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Enrollment{}
	for _, e := range s.enrollments {
		if match(e) {
			out = append(out, *e)
		}
	}
	return out
}

// GetCheckInsByEnrollmentID returns check-ins in the order they were logged
func (s *Store) GetCheckInsByEnrollmentID(enrollmentID string) []models.CheckIn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CheckIn{}
	for _, c := range s.checkIns {
		if c.EnrollmentID == enrollmentID {
			out = append(out, c)
		}
	}
	return out
}

// GetOutreachMessagesByLearnerID is a learner's inbox, oldest first
func (s *Store) GetOutreachMessagesByLearnerID(learnerID string) []models.OutreachMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.OutreachMessage{}
	for _, m := range s.outreach {
		if m.ToLearnerID == learnerID {
			out = append(out, m)
		}
	}
	return out
}

// GetOutreachMessagesByCompanyID is a company's sent box, oldest first
func (s *Store) GetOutreachMessagesByCompanyID(companyID string) []models.OutreachMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.OutreachMessage{}
	for _, m := range s.outreach {
		if m.FromCompanyID == companyID {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) GetCourseCompletionsByLearnerID(learnerID string) []models.CourseCompletion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completionsFor(learnerID)
}

// completionsFor expects the read lock to be held
func (s *Store) completionsFor(learnerID string) []models.CourseCompletion {
	out := []models.CourseCompletion{}
	for _, c := range s.completions {
		if c.LearnerID == learnerID {
			out = append(out, c)
		}
	}
	return out
}

// Listings, in seed or insertion order

func (s *Store) ListCompanies() []models.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Company, len(s.companies))
	copy(out, s.companies)
	return out
}

func (s *Store) ListCourses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, copyCourse(c))
	}
	return out
}

func (s *Store) ListTracks() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, copyTrack(t))
	}
	return out
}

func (s *Store) ListJobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, copyJob(j))
	}
	return out
}

func (s *Store) ListLearners() []models.Learner {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Learner, 0, len(s.learners))
	for _, l := range s.learners {
		out = append(out, *l.Clone())
	}
	return out
}

func (s *Store) ListEnrollments() []models.Enrollment {
	return s.filterEnrollments(func(*models.Enrollment) bool { return true })
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyCourse(c models.Course) models.Course {
	c.Skills = copyStrings(c.Skills)
	return c
}

func copyTrack(t models.Track) models.Track {
	t.StageIDs = copyStrings(t.StageIDs)
	return t
}

func copyStage(st models.Stage) models.Stage {
	st.CourseIDs = copyStrings(st.CourseIDs)
	st.SkillsAwarded = copyStrings(st.SkillsAwarded)
	return st
}

func copyJob(j models.Job) models.Job {
	j.RequiredSkills = copyStrings(j.RequiredSkills)
	return j
}
