package store

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/skillsprint/internal/catalog"
	"github.com/terra-clan/skillsprint/internal/models"
)

// ErrLearnerNotVisible is returned by RequestOutreach when the target learner
// has no recruiter-visible enrollment and visibility is enforced
var ErrLearnerNotVisible = errors.New("learner is not visible to recruiters")

// Store owns every collection of the platform and exposes the query,
// derivation and action surface over them.
// All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	companies   []models.Company
	companyByID map[string]int

	courses    []models.Course
	courseByID map[string]int

	tracks    []models.Track
	trackByID map[string]int

	stageByID     map[string]models.Stage
	stagesByTrack map[string][]models.Stage

	jobs    []models.Job
	jobByID map[string]int

	learners    []*models.Learner
	learnerByID map[string]*models.Learner

	enrollments    []*models.Enrollment
	enrollmentByID map[string]*models.Enrollment

	checkIns    []models.CheckIn
	completions []models.CourseCompletion
	outreach    []models.OutreachMessage

	now               func() time.Time
	requireVisibility bool

	subMu       sync.RWMutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used for timestamps and risk evaluation
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRequireVisibility controls whether outreach is limited to learners
// with at least one recruiter-visible enrollment. Enabled by default.
func WithRequireVisibility(require bool) Option {
	return func(s *Store) {
		s.requireVisibility = require
	}
}

// New creates a store populated from seed
func New(seed *catalog.Seed, opts ...Option) *Store {
	s := &Store{
		companyByID:       make(map[string]int),
		courseByID:        make(map[string]int),
		trackByID:         make(map[string]int),
		stageByID:         make(map[string]models.Stage),
		stagesByTrack:     make(map[string][]models.Stage),
		jobByID:           make(map[string]int),
		learnerByID:       make(map[string]*models.Learner),
		enrollmentByID:    make(map[string]*models.Enrollment),
		now:               time.Now,
		requireVisibility: true,
		subscribers:       make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if seed == nil {
		seed = &catalog.Seed{}
	}

	for i, c := range seed.Companies {
		s.companies = append(s.companies, c)
		s.companyByID[c.ID] = i
	}
	for i, c := range seed.Courses {
		s.courses = append(s.courses, c)
		s.courseByID[c.ID] = i
	}
	for i, t := range seed.Tracks {
		s.tracks = append(s.tracks, t)
		s.trackByID[t.ID] = i
	}
	for _, st := range seed.Stages {
		s.stageByID[st.ID] = st
		s.stagesByTrack[st.TrackID] = append(s.stagesByTrack[st.TrackID], st)
	}
	for trackID := range s.stagesByTrack {
		stages := s.stagesByTrack[trackID]
		sort.SliceStable(stages, func(i, j int) bool {
			return stages[i].StageNum < stages[j].StageNum
		})
	}
	for i, j := range seed.Jobs {
		s.jobs = append(s.jobs, j)
		s.jobByID[j.ID] = i
	}
	for i := range seed.Learners {
		l := seed.Learners[i].Clone()
		s.learners = append(s.learners, l)
		s.learnerByID[l.ID] = l
	}
	for i := range seed.Enrollments {
		e := seed.Enrollments[i]
		s.enrollments = append(s.enrollments, &e)
		s.enrollmentByID[e.ID] = &e
	}
	s.completions = append(s.completions, seed.Completions...)

	slog.Info("data store initialized",
		"learners", len(s.learners),
		"tracks", len(s.tracks),
		"enrollments", len(s.enrollments),
		"require_visibility", s.requireVisibility,
	)

	return s
}

// Now returns the current time of the store clock
func (s *Store) Now() time.Time {
	return s.now()
}

// newID returns "<prefix>-<12 hex chars>"
func newID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + hex[:12]
}
