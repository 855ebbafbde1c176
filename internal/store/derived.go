package store

import (
	"math"
	"sort"
	"time"

	"github.com/terra-clan/skillsprint/internal/models"
)

// Derived views are recomputed on every call from the live collections.
// Each method evaluates under a single read lock so it sees one snapshot.

// GetLearnerAvgScore returns the mean completion score rounded to the
// nearest integer, or 0 when the learner has no completions
func (s *Store) GetLearnerAvgScore(learnerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.avgScore(learnerID)
}

func (s *Store) avgScore(learnerID string) int {
	sum, n := 0, 0
	for _, c := range s.completions {
		if c.LearnerID == learnerID {
			sum += c.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// GetLearnerAllSkills returns the sorted union of resume skills, base skills,
// skills of completed courses and skills awarded by every stage at or below
// the current stage of each enrollment
func (s *Store) GetLearnerAllSkills(learnerID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allSkills(learnerID)
}

func (s *Store) allSkills(learnerID string) []string {
	l, ok := s.learnerByID[learnerID]
	if !ok {
		return []string{}
	}

	set := make(map[string]struct{})
	addAll(set, l.Resume.Skills)
	addAll(set, l.BaseSkills)

	for _, c := range s.completions {
		if c.LearnerID != learnerID {
			continue
		}
		if i, ok := s.courseByID[c.CourseID]; ok {
			addAll(set, s.courses[i].Skills)
		}
	}

	s.addStageSkills(set, learnerID)
	return sortedKeys(set)
}

// GetLearnerSkillsProfile returns base skills plus skills of completed or
// current stages. Resume and course skills are not part of this view.
func (s *Store) GetLearnerSkillsProfile(learnerID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skillsProfile(learnerID)
}

func (s *Store) skillsProfile(learnerID string) []string {
	l, ok := s.learnerByID[learnerID]
	if !ok {
		return []string{}
	}

	set := make(map[string]struct{})
	addAll(set, l.BaseSkills)
	s.addStageSkills(set, learnerID)
	return sortedKeys(set)
}

func (s *Store) addStageSkills(set map[string]struct{}, learnerID string) {
	for _, e := range s.enrollments {
		if e.LearnerID != learnerID {
			continue
		}
		for _, st := range s.stagesByTrack[e.TrackID] {
			if st.StageNum <= e.StageNum {
				addAll(set, st.SkillsAwarded)
			}
		}
	}
}

// ComputeEnrollmentRisk classifies an enrollment against the store clock
func (s *Store) ComputeEnrollmentRisk(e models.Enrollment) models.RiskLevel {
	return riskAt(&e, s.now())
}

func riskAt(e *models.Enrollment, now time.Time) models.RiskLevel {
	days := e.DaysSinceActivity(now)
	behind := e.StageNum - 1

	if days > 5 || e.ProgressPct < behind*20 {
		return models.RiskHigh
	}
	if days > 2 || e.ProgressPct < behind*15 {
		return models.RiskMedium
	}
	return models.RiskLow
}

// GetEnrollmentsWithRiskByCompanyID returns a company's enrollments, each
// classified at the same instant
func (s *Store) GetEnrollmentsWithRiskByCompanyID(companyID string) []models.EnrollmentWithRisk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := []models.EnrollmentWithRisk{}
	for _, e := range s.enrollments {
		if e.CompanyID == companyID {
			out = append(out, models.EnrollmentWithRisk{Enrollment: *e, Risk: riskAt(e, now)})
		}
	}
	return out
}

// EnrollmentRisks classifies every enrollment at the same instant
func (s *Store) EnrollmentRisks() []models.EnrollmentWithRisk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]models.EnrollmentWithRisk, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		out = append(out, models.EnrollmentWithRisk{Enrollment: *e, Risk: riskAt(e, now)})
	}
	return out
}

// MatchJob evaluates one learner against one job; false if the job is unknown
func (s *Store) MatchJob(learnerID, jobID string) (models.JobMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.jobByID[jobID]
	if !ok {
		return models.JobMatch{}, false
	}
	return matchJob(s.jobs[i], toSet(s.allSkills(learnerID)), s.avgScore(learnerID)), true
}

// MatchJobs partitions every job into eligible, close and other matches
func (s *Store) MatchJobs(learnerID string) models.JobMatches {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skills := s.allSkills(learnerID)
	avg := s.avgScore(learnerID)
	set := toSet(skills)

	res := models.JobMatches{
		LearnerID:    learnerID,
		AvgScore:     avg,
		Skills:       skills,
		Eligible:     []models.JobMatch{},
		CloseMatches: []models.JobMatch{},
		Other:        []models.JobMatch{},
	}

	for _, job := range s.jobs {
		m := matchJob(job, set, avg)
		switch {
		case m.IsEligible:
			res.Eligible = append(res.Eligible, m)
		case m.IsCloseMatch():
			res.CloseMatches = append(res.CloseMatches, m)
		default:
			res.Other = append(res.Other, m)
		}
	}
	return res
}

func matchJob(job models.Job, skills map[string]struct{}, avg int) models.JobMatch {
	matched := []string{}
	for _, req := range job.RequiredSkills {
		if _, ok := skills[req]; ok {
			matched = append(matched, req)
		}
	}

	pct := 100.0
	if len(job.RequiredSkills) > 0 {
		pct = 100 * float64(len(matched)) / float64(len(job.RequiredSkills))
	}

	meets := avg >= job.MinAvgScore
	return models.JobMatch{
		Job:             copyJob(job),
		MatchedSkills:   matched,
		MatchPercentage: pct,
		MeetsMinScore:   meets,
		IsEligible:      meets && pct >= models.EligibleMatchPct,
	}
}

// EligibleCandidates lists learners eligible for a job, best average first.
// Ties are broken by learner id.
func (s *Store) EligibleCandidates(jobID string) []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Candidate{}
	i, ok := s.jobByID[jobID]
	if !ok {
		return out
	}
	job := s.jobs[i]

	for _, l := range s.learners {
		avg := s.avgScore(l.ID)
		m := matchJob(job, toSet(s.allSkills(l.ID)), avg)
		if !m.IsEligible {
			continue
		}
		out = append(out, models.Candidate{
			Learner:         *l.Clone(),
			AvgScore:        avg,
			MatchPercentage: m.MatchPercentage,
			MatchedSkills:   m.MatchedSkills,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].AvgScore != out[b].AvgScore {
			return out[a].AvgScore > out[b].AvgScore
		}
		return out[a].Learner.ID < out[b].Learner.ID
	})
	return out
}

// CompanySummary returns the recruiter dashboard counters for a company
func (s *Store) CompanySummary(companyID string) models.CompanySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	sum := models.CompanySummary{CompanyID: companyID}
	for _, e := range s.enrollments {
		if e.CompanyID != companyID {
			continue
		}
		sum.TotalLearners++
		if riskAt(e, now) == models.RiskHigh {
			sum.AtRisk++
		}
		if e.RecruiterVisible {
			sum.RecruiterVisible++
		}
		if e.Status == models.EnrollmentCompleted {
			sum.Completed++
		}
	}
	return sum
}

// PerformanceTierFor is a display helper over models.TierForScore
func (s *Store) PerformanceTierFor(score int) models.PerformanceTier {
	return models.TierForScore(score)
}

// LearnerSummary aggregates a learner's dashboard profile; false if unknown
func (s *Store) LearnerSummary(learnerID string) (models.LearnerSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.learnerByID[learnerID]
	if !ok {
		return models.LearnerSummary{}, false
	}

	avg := s.avgScore(learnerID)
	sum := models.LearnerSummary{
		Learner:       *l.Clone(),
		AvgScore:      avg,
		Tier:          models.TierForScore(avg),
		AllSkills:     s.allSkills(learnerID),
		SkillsProfile: s.skillsProfile(learnerID),
		Completions:   len(s.completionsFor(learnerID)),
	}
	for _, e := range s.enrollments {
		if e.LearnerID != learnerID {
			continue
		}
		sum.Enrollments++
		if e.Status == models.EnrollmentCompleted {
			sum.CompletedTracks++
		}
	}
	return sum, true
}

func addAll(set map[string]struct{}, items []string) {
	for _, it := range items {
		set[it] = struct{}{}
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	addAll(set, items)
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
