package models

import "time"

// Resume holds the learner-editable profile sections.
// List fields are always non-nil so consumers can range without checks.
type Resume struct {
	Summary    string   `json:"summary"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
	Projects   []string `json:"projects"`
	Skills     []string `json:"skills"`
}

// Normalized returns a copy of r with nil lists replaced by empty ones
func (r Resume) Normalized() Resume {
	return Resume{
		Summary:    r.Summary,
		Education:  cloneStrings(r.Education),
		Experience: cloneStrings(r.Experience),
		Projects:   cloneStrings(r.Projects),
		Skills:     cloneStrings(r.Skills),
	}
}

// Learner represents a candidate working through tracks
type Learner struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	IsPremium      bool      `json:"isPremium"`
	Resume         Resume    `json:"resume"`
	BaseSkills     []string  `json:"baseSkills"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// Clone returns a deep copy of the learner
func (l *Learner) Clone() *Learner {
	c := *l
	c.Resume = l.Resume.Normalized()
	c.BaseSkills = cloneStrings(l.BaseSkills)
	return &c
}

// CourseCompletion records one scored completion of a course
type CourseCompletion struct {
	ID          string    `json:"id"`
	LearnerID   string    `json:"learnerId"`
	CourseID    string    `json:"courseId"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
