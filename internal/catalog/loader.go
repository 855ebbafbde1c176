package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/skillsprint/internal/models"
)

//go:embed seed/*.yaml
var defaultSeed embed.FS

const day = 24 * time.Hour

// Seed is the fully resolved catalog handed to the store at start-up
type Seed struct {
	Companies   []models.Company
	Courses     []models.Course
	Tracks      []models.Track
	Stages      []models.Stage
	Jobs        []models.Job
	Learners    []models.Learner
	Enrollments []models.Enrollment
	Completions []models.CourseCompletion
}

// Loader reads seed YAML files from a filesystem
type Loader struct {
	fsys fs.FS
	now  func() time.Time
}

// Option configures a Loader
type Option func(*Loader)

// WithClock sets the reference time used to resolve "days ago" offsets
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys: fsys,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDirLoader creates a loader reading from a directory on disk
func NewDirLoader(dir string, opts ...Option) *Loader {
	return NewLoader(os.DirFS(dir), opts...)
}

// NewDefaultLoader creates a loader over the embedded demo seed
func NewDefaultLoader(opts ...Option) *Loader {
	sub, err := fs.Sub(defaultSeed, "seed")
	if err != nil {
		// embed paths are fixed at compile time
		panic(err)
	}
	return NewLoader(sub, opts...)
}

// Load reads every seed file and resolves the catalog.
// Missing files yield empty collections; malformed files are errors;
// individual invalid entries are logged and skipped.
func (l *Loader) Load() (*Seed, error) {
	now := l.now()
	seed := &Seed{}

	var cf companiesFile
	if err := l.readFile("companies.yaml", &cf); err != nil {
		return nil, err
	}
	seed.Companies = l.resolveCompanies(cf.Companies)

	var crf coursesFile
	if err := l.readFile("courses.yaml", &crf); err != nil {
		return nil, err
	}
	seed.Courses = l.resolveCourses(crf.Courses)

	var tf tracksFile
	if err := l.readFile("tracks.yaml", &tf); err != nil {
		return nil, err
	}
	seed.Tracks, seed.Stages = l.resolveTracks(tf.Tracks, seed.Companies, seed.Courses)

	var jf jobsFile
	if err := l.readFile("jobs.yaml", &jf); err != nil {
		return nil, err
	}
	seed.Jobs = l.resolveJobs(jf.Jobs)

	var lf learnersFile
	if err := l.readFile("learners.yaml", &lf); err != nil {
		return nil, err
	}
	seed.Learners = l.resolveLearners(lf.Learners, now)

	var af activityFile
	if err := l.readFile("activity.yaml", &af); err != nil {
		return nil, err
	}
	seed.Enrollments = l.resolveEnrollments(af.Enrollments, seed.Tracks, now)
	seed.Completions = l.resolveCompletions(af.Completions, now)

	slog.Info("seed catalog loaded",
		"companies", len(seed.Companies),
		"courses", len(seed.Courses),
		"tracks", len(seed.Tracks),
		"stages", len(seed.Stages),
		"jobs", len(seed.Jobs),
		"learners", len(seed.Learners),
		"enrollments", len(seed.Enrollments),
		"completions", len(seed.Completions),
	)

	return seed, nil
}

// readFile decodes one YAML file into out; a missing file leaves out untouched
func (l *Loader) readFile(name string, out interface{}) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("seed file not found, skipping", "file", name)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (l *Loader) resolveCompanies(in []models.Company) []models.Company {
	seen := make(map[string]bool, len(in))
	out := make([]models.Company, 0, len(in))
	for _, c := range in {
		if c.ID == "" || seen[c.ID] {
			slog.Warn("skipping company with missing or duplicate id", "id", c.ID)
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func (l *Loader) resolveCourses(in []courseEntry) []models.Course {
	seen := make(map[string]bool, len(in))
	out := make([]models.Course, 0, len(in))
	for _, c := range in {
		if c.ID == "" || seen[c.ID] {
			slog.Warn("skipping course with missing or duplicate id", "id", c.ID)
			continue
		}
		difficulty := models.Difficulty(c.Difficulty)
		if !difficulty.Valid() {
			slog.Warn("skipping course with unknown difficulty", "id", c.ID, "difficulty", c.Difficulty)
			continue
		}
		seen[c.ID] = true
		out = append(out, models.Course{
			ID:             c.ID,
			Title:          c.Title,
			Provider:       c.Provider,
			Category:       c.Category,
			Difficulty:     difficulty,
			EstimatedHours: c.EstimatedHours,
			Description:    c.Description,
			URL:            c.URL,
			Skills:         nonNil(c.Skills),
		})
	}
	return out
}

func (l *Loader) resolveTracks(in []trackEntry, companies []models.Company, courses []models.Course) ([]models.Track, []models.Stage) {
	known := make(map[string]bool, len(companies))
	for _, c := range companies {
		known[c.ID] = true
	}

	seen := make(map[string]bool, len(in))
	tracks := make([]models.Track, 0, len(in))
	var stages []models.Stage

	for _, t := range in {
		if t.ID == "" || seen[t.ID] {
			slog.Warn("skipping track with missing or duplicate id", "id", t.ID)
			continue
		}
		if !known[t.ProviderCompanyID] {
			slog.Warn("track provider is not a known company", "track", t.ID, "provider", t.ProviderCompanyID)
		}

		var ladder []models.Stage
		if len(t.Stages) == 0 {
			ladder = DefaultLadder(t.ID, courses)
		} else {
			var err error
			ladder, err = explicitLadder(t.ID, t.Stages)
			if err != nil {
				slog.Warn("skipping track with invalid stages", "track", t.ID, "error", err)
				continue
			}
		}

		track := models.Track{
			ID:                t.ID,
			Name:              t.Name,
			ProviderCompanyID: t.ProviderCompanyID,
			Description:       t.Description,
			EstimatedWeeks:    t.EstimatedWeeks,
			StageIDs:          make([]string, 0, models.StageCount),
		}
		for _, s := range ladder {
			track.StageIDs = append(track.StageIDs, s.ID)
		}

		seen[t.ID] = true
		tracks = append(tracks, track)
		stages = append(stages, ladder...)
	}

	return tracks, stages
}

func (l *Loader) resolveJobs(in []jobEntry) []models.Job {
	seen := make(map[string]bool, len(in))
	out := make([]models.Job, 0, len(in))
	for _, j := range in {
		if j.ID == "" || seen[j.ID] {
			slog.Warn("skipping job with missing or duplicate id", "id", j.ID)
			continue
		}
		if j.MinAvgScore < 0 || j.MinAvgScore > 100 {
			slog.Warn("skipping job with out of range min_avg_score", "id", j.ID, "min_avg_score", j.MinAvgScore)
			continue
		}
		seen[j.ID] = true
		out = append(out, models.Job{
			ID:              j.ID,
			Title:           j.Title,
			Company:         j.Company,
			Description:     j.Description,
			RequiredSkills:  nonNil(j.RequiredSkills),
			MinAvgScore:     j.MinAvgScore,
			EstimatedSalary: j.EstimatedSalary,
		})
	}
	return out
}

func (l *Loader) resolveLearners(in []learnerEntry, now time.Time) []models.Learner {
	seen := make(map[string]bool, len(in))
	out := make([]models.Learner, 0, len(in))
	for _, e := range in {
		if e.ID == "" || seen[e.ID] {
			slog.Warn("skipping learner with missing or duplicate id", "id", e.ID)
			continue
		}
		seen[e.ID] = true
		out = append(out, models.Learner{
			ID:             e.ID,
			Name:           e.Name,
			Email:          e.Email,
			IsPremium:      e.IsPremium,
			Resume:         e.Resume.Normalized(),
			BaseSkills:     nonNil(e.BaseSkills),
			CreatedAt:      daysAgo(now, e.CreatedDaysAgo),
			LastActivityAt: daysAgo(now, e.LastActivityDaysAgo),
		})
	}
	return out
}

func (l *Loader) resolveEnrollments(in []enrollmentEntry, tracks []models.Track, now time.Time) []models.Enrollment {
	providers := make(map[string]string, len(tracks))
	for _, t := range tracks {
		providers[t.ID] = t.ProviderCompanyID
	}

	seen := make(map[string]bool, len(in))
	out := make([]models.Enrollment, 0, len(in))
	for _, e := range in {
		if e.ID == "" || seen[e.ID] {
			slog.Warn("skipping enrollment with missing or duplicate id", "id", e.ID)
			continue
		}
		if e.StageNum < 1 || e.StageNum > models.StageCount {
			slog.Warn("skipping enrollment with out of range stage", "id", e.ID, "stage_num", e.StageNum)
			continue
		}
		if e.ProgressPct < 0 || e.ProgressPct > 100 {
			slog.Warn("skipping enrollment with out of range progress", "id", e.ID, "progress_pct", e.ProgressPct)
			continue
		}

		status := models.EnrollmentStatus(e.Status)
		if status == "" {
			status = models.EnrollmentActive
		}
		if status != models.EnrollmentActive && status != models.EnrollmentCompleted {
			slog.Warn("skipping enrollment with unknown status", "id", e.ID, "status", e.Status)
			continue
		}

		companyID := e.CompanyID
		if companyID == "" {
			companyID = providers[e.TrackID]
		}

		seen[e.ID] = true
		out = append(out, models.Enrollment{
			ID:               e.ID,
			LearnerID:        e.LearnerID,
			CompanyID:        companyID,
			TrackID:          e.TrackID,
			StageNum:         e.StageNum,
			Status:           status,
			ProgressPct:      e.ProgressPct,
			LastActivity:     daysAgo(now, e.LastActivityDaysAgo),
			RecruiterVisible: e.RecruiterVisible,
		})
	}
	return out
}

func (l *Loader) resolveCompletions(in []completionEntry, now time.Time) []models.CourseCompletion {
	out := make([]models.CourseCompletion, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			slog.Warn("skipping completion with missing id", "learner", c.LearnerID, "course", c.CourseID)
			continue
		}
		out = append(out, models.CourseCompletion{
			ID:          c.ID,
			LearnerID:   c.LearnerID,
			CourseID:    c.CourseID,
			Score:       c.Score,
			CompletedAt: daysAgo(now, c.CompletedDaysAgo),
		})
	}
	return out
}

func daysAgo(now time.Time, days float64) time.Time {
	return now.Add(-time.Duration(days * float64(day)))
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// --- YAML file structs ---

type companiesFile struct {
	Companies []models.Company `yaml:"companies"`
}

type coursesFile struct {
	Courses []courseEntry `yaml:"courses"`
}

type courseEntry struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Provider       string   `yaml:"provider"`
	Category       string   `yaml:"category"`
	Difficulty     string   `yaml:"difficulty"`
	EstimatedHours int      `yaml:"estimated_hours"`
	Description    string   `yaml:"description"`
	URL            string   `yaml:"url"`
	Skills         []string `yaml:"skills"`
}

type tracksFile struct {
	Tracks []trackEntry `yaml:"tracks"`
}

type trackEntry struct {
	ID                string       `yaml:"id"`
	Name              string       `yaml:"name"`
	ProviderCompanyID string       `yaml:"provider_company_id"`
	Description       string       `yaml:"description"`
	EstimatedWeeks    int          `yaml:"estimated_weeks"`
	Stages            []stageEntry `yaml:"stages"`
}

type stageEntry struct {
	ID            string   `yaml:"id"`
	StageNum      int      `yaml:"stage_num"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	CourseIDs     []string `yaml:"course_ids"`
	SkillsAwarded []string `yaml:"skills_awarded"`
	SalaryRange   string   `yaml:"salary_range"`
}

type jobsFile struct {
	Jobs []jobEntry `yaml:"jobs"`
}

type jobEntry struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Company         string   `yaml:"company"`
	Description     string   `yaml:"description"`
	RequiredSkills  []string `yaml:"required_skills"`
	MinAvgScore     int      `yaml:"min_avg_score"`
	EstimatedSalary string   `yaml:"estimated_salary"`
}

type learnersFile struct {
	Learners []learnerEntry `yaml:"learners"`
}

type learnerEntry struct {
	ID                  string        `yaml:"id"`
	Name                string        `yaml:"name"`
	Email               string        `yaml:"email"`
	IsPremium           bool          `yaml:"is_premium"`
	CreatedDaysAgo      float64       `yaml:"created_days_ago"`
	LastActivityDaysAgo float64       `yaml:"last_activity_days_ago"`
	BaseSkills          []string      `yaml:"base_skills"`
	Resume              models.Resume `yaml:"resume"`
}

type activityFile struct {
	Enrollments []enrollmentEntry `yaml:"enrollments"`
	Completions []completionEntry `yaml:"completions"`
}

type enrollmentEntry struct {
	ID                  string  `yaml:"id"`
	LearnerID           string  `yaml:"learner_id"`
	CompanyID           string  `yaml:"company_id"`
	TrackID             string  `yaml:"track_id"`
	StageNum            int     `yaml:"stage_num"`
	Status              string  `yaml:"status"`
	ProgressPct         int     `yaml:"progress_pct"`
	LastActivityDaysAgo float64 `yaml:"last_activity_days_ago"`
	RecruiterVisible    bool    `yaml:"recruiter_visible"`
}

type completionEntry struct {
	ID               string  `yaml:"id"`
	LearnerID        string  `yaml:"learner_id"`
	CourseID         string  `yaml:"course_id"`
	Score            int     `yaml:"score"`
	CompletedDaysAgo float64 `yaml:"completed_days_ago"`
}
