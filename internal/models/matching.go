package models

// Job match thresholds in percent
const (
	EligibleMatchPct = 75
	CloseMatchPct    = 50
)

// JobMatch is a learner's fit against one job
type JobMatch struct {
	Job             Job      `json:"job"`
	MatchedSkills   []string `json:"matchedSkills"`
	MatchPercentage float64  `json:"matchPercentage"`
	MeetsMinScore   bool     `json:"meetsMinScore"`
	IsEligible      bool     `json:"isEligible"`
}

// IsCloseMatch reports a job the learner is near to qualifying for
func (m JobMatch) IsCloseMatch() bool {
	return !m.IsEligible && m.MatchPercentage >= CloseMatchPct
}

// JobMatches partitions every job for one learner
type JobMatches struct {
	LearnerID    string     `json:"learnerId"`
	AvgScore     int        `json:"avgScore"`
	Skills       []string   `json:"skills"`
	Eligible     []JobMatch `json:"eligible"`
	CloseMatches []JobMatch `json:"closeMatches"`
	Other        []JobMatch `json:"other"`
}

// Candidate is a learner eligible for a job, as seen by a recruiter
type Candidate struct {
	Learner         Learner  `json:"learner"`
	AvgScore        int      `json:"avgScore"`
	MatchPercentage float64  `json:"matchPercentage"`
	MatchedSkills   []string `json:"matchedSkills"`
}

// PerformanceTier is a display-only score band
type PerformanceTier string

const (
	TierBronze PerformanceTier = "Bronze"
	TierSilver PerformanceTier = "Silver"
	TierGold   PerformanceTier = "Gold"
)

// TierForScore maps an average score onto its band:
// Bronze 0-70, Silver 71-89, Gold 90-100
func TierForScore(score int) PerformanceTier {
	switch {
	case score >= 90:
		return TierGold
	case score >= 71:
		return TierSilver
	default:
		return TierBronze
	}
}

// LearnerSummary is the aggregate profile shown on a learner dashboard
type LearnerSummary struct {
	Learner         Learner         `json:"learner"`
	AvgScore        int             `json:"avgScore"`
	Tier            PerformanceTier `json:"tier"`
	AllSkills       []string        `json:"allSkills"`
	SkillsProfile   []string        `json:"skillsProfile"`
	Enrollments     int             `json:"enrollments"`
	CompletedTracks int             `json:"completedTracks"`
	Completions     int             `json:"completions"`
}

// CompanySummary holds the recruiter dashboard counters for one company
type CompanySummary struct {
	CompanyID        string `json:"companyId"`
	TotalLearners    int    `json:"totalLearners"`
	AtRisk           int    `json:"atRisk"`
	RecruiterVisible int    `json:"recruiterVisible"`
	Completed        int    `json:"completed"`
}
