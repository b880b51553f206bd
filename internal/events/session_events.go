package events

import (
	"time"

	"github.com/SAP-F-2025/practice-service/internal/session"
	"github.com/google/uuid"
)

// EventType represents the session lifecycle events published for external
// consumers (notification service, analytics).
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionRestarted EventType = "session.restarted"
	EventQuestionTimedOut EventType = "question.timed_out"
)

// SessionEvent is the envelope shared by all published events.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "practice-service"

// GenerateEventID returns a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type SessionStartedEvent struct {
	SessionID     string `json:"session_id"`
	PracticeSetID uint   `json:"practice_set_id"`
	LearnerID     string `json:"learner_id,omitempty"`
	QuestionCount int    `json:"question_count"`
}

type SessionCompletedEvent struct {
	SessionID     string `json:"session_id"`
	PracticeSetID uint   `json:"practice_set_id"`
	LearnerID     string `json:"learner_id,omitempty"`
	CorrectCount  int    `json:"correct_count"`
	TotalCount    int    `json:"total_count"`
	Percentage    int    `json:"percentage"`
}

type SessionRestartedEvent struct {
	SessionID     string `json:"session_id"`
	PracticeSetID uint   `json:"practice_set_id"`
}

type QuestionTimedOutEvent struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
}

// NewSessionStartedEvent builds the session.started envelope.
func NewSessionStartedEvent(sessionID string, practiceSetID uint, learnerID string, questionCount int) *SessionEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:     sessionID,
		PracticeSetID: practiceSetID,
		LearnerID:     learnerID,
		QuestionCount: questionCount,
	})
}

// NewSessionCompletedEvent builds the session.completed envelope from the
// final result report.
func NewSessionCompletedEvent(sessionID string, practiceSetID uint, learnerID string, report *session.Report) *SessionEvent {
	return newEvent(EventSessionCompleted, SessionCompletedEvent{
		SessionID:     sessionID,
		PracticeSetID: practiceSetID,
		LearnerID:     learnerID,
		CorrectCount:  report.CorrectCount,
		TotalCount:    report.TotalCount,
		Percentage:    report.Percentage,
	})
}

// NewSessionRestartedEvent builds the session.restarted envelope.
func NewSessionRestartedEvent(sessionID string, practiceSetID uint) *SessionEvent {
	return newEvent(EventSessionRestarted, SessionRestartedEvent{
		SessionID:     sessionID,
		PracticeSetID: practiceSetID,
	})
}

// NewQuestionTimedOutEvent builds the question.timed_out envelope.
func NewQuestionTimedOutEvent(sessionID, questionID string) *SessionEvent {
	return newEvent(EventQuestionTimedOut, QuestionTimedOutEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
	})
}
