package models

// Company represents a certification provider or employer
type Company struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Difficulty is the level of a catalog course
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether d is one of the known difficulty levels
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Course is an immutable catalog entry
type Course struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Provider       string     `json:"provider"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	EstimatedHours int        `json:"estimatedHours"`
	Description    string     `json:"description"`
	URL            string     `json:"url"`
	Skills         []string   `json:"skills"`
}

// Stage is one rung (1-5) of a track
type Stage struct {
	ID            string   `json:"id"`
	TrackID       string   `json:"trackId"`
	StageNum      int      `json:"stageNum"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CourseIDs     []string `json:"courseIds"`
	SkillsAwarded []string `json:"skillsAwarded"`
	SalaryRange   string   `json:"salaryRange"`
}

// Track is a named 5-stage curriculum tied to a provider company
type Track struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ProviderCompanyID string   `json:"providerCompanyId"`
	Description       string   `json:"description"`
	EstimatedWeeks    int      `json:"estimatedWeeks"`
	StageIDs          []string `json:"stageIds"`
}

// Job is an open position with skill and score requirements
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	MinAvgScore     int      `json:"minAvgScore"`
	EstimatedSalary string   `json:"estimatedSalary"`
}

// StageCount is the fixed number of stages in every track
const StageCount = 5
