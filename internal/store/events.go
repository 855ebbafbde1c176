package store

import (
	"log/slog"
	"time"
)

// EventType identifies a change published by the store
type EventType string

const (
	EventEnrollmentStarted        EventType = "enrollment.started"
	EventEnrollmentCheckedIn      EventType = "enrollment.checked_in"
	EventEnrollmentStageCompleted EventType = "enrollment.stage_completed"
	EventEnrollmentCompleted      EventType = "enrollment.completed"
	EventCourseCompleted          EventType = "course.completed"
	EventResumeUpdated            EventType = "resume.updated"
	EventOutreachSent             EventType = "outreach.sent"
	EventEnrollmentAtRisk         EventType = "enrollment.at_risk"
)

// Event describes one state change
type Event struct {
	Type         EventType   `json:"type"`
	LearnerID    string      `json:"learnerId,omitempty"`
	CompanyID    string      `json:"companyId,omitempty"`
	EnrollmentID string      `json:"enrollmentId,omitempty"`
	Payload      interface{} `json:"payload,omitempty"`
	At           time.Time   `json:"at"`
}

// Subscribe registers fn to receive every published event and returns a
// function that removes it. fn is called synchronously from the publishing
// goroutine and must not block or call back into store actions.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// Publish delivers ev to all subscribers. Actions call it after releasing
// the data lock.
func (s *Store) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = s.now()
	}

	s.subMu.RLock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	slog.Debug("store event", "type", ev.Type, "learner_id", ev.LearnerID, "enrollment_id", ev.EnrollmentID)

	for _, fn := range subs {
		fn(ev)
	}
}
