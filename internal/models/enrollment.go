package models

import (
	"time"
)

// EnrollmentStatus represents the current state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// IsTerminal returns true if no further stage transitions are possible
func (s EnrollmentStatus) IsTerminal() bool {
	return s == EnrollmentCompleted
}

// Enrollment is a learner's progress record against one track
type Enrollment struct {
	ID               string           `json:"id"`
	LearnerID        string           `json:"learnerId"`
	CompanyID        string           `json:"companyId"`
	TrackID          string           `json:"trackId"`
	StageNum         int              `json:"stageNum"`
	Status           EnrollmentStatus `json:"status"`
	ProgressPct      int              `json:"progressPct"`
	LastActivity     time.Time        `json:"lastActivityISO"`
	RecruiterVisible bool             `json:"recruiterVisible"`
}

// DaysSinceActivity returns the fractional number of days between the last
// activity and now
func (e *Enrollment) DaysSinceActivity(now time.Time) float64 {
	return now.Sub(e.LastActivity).Hours() / 24
}

// CheckIn is a logged study session against an enrollment
type CheckIn struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollmentId"`
	Minutes      int       `json:"minutes"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"createdAtISO"`
}

// OutreachMessage is a one-way message from a company to a learner
type OutreachMessage struct {
	ID            string    `json:"id"`
	FromCompanyID string    `json:"fromCompanyId"`
	ToLearnerID   string    `json:"toLearnerId"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAtISO"`
}

// RiskLevel classifies how likely an enrollment is to stall
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// EnrollmentWithRisk pairs an enrollment with its freshly computed risk
type EnrollmentWithRisk struct {
	Enrollment
	Risk RiskLevel `json:"risk"`
}
