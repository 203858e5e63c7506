package events

import (
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/google/uuid"
)

const (
	eventSource  = "challenge-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of play events the service emits
type EventType string

const (
	EventSessionStarted    EventType = "session.started"
	EventChallengeResolved EventType = "challenge.resolved"
	EventSessionAbandoned  EventType = "session.abandoned"
	EventProjectSaved      EventType = "project.saved"
)

// Event is the envelope published for every event type
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	SessionID     string               `json:"session_id"`
	TestID        string               `json:"test_id,omitempty"`
	ChallengeID   string               `json:"challenge_id"`
	ChallengeType models.ChallengeType `json:"challenge_type"`
	TimeLimit     int                  `json:"time_limit"` // seconds
	StartedAt     time.Time            `json:"started_at"`
}

type ChallengeResolvedEvent struct {
	models.SessionResult
}

type SessionAbandonedEvent struct {
	SessionID   string               `json:"session_id"`
	ChallengeID string               `json:"challenge_id"`
	Status      models.SessionStatus `json:"status"`
	AbandonedAt time.Time            `json:"abandoned_at"`
}

type ProjectSavedEvent struct {
	ProjectID string    `json:"project_id"`
	TestCount int       `json:"test_count"`
	SavedAt   time.Time `json:"saved_at"`
}

func newEvent(t EventType, data any) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSessionStartedEvent(sessionID, testID string, ch models.Challenge, startedAt time.Time) *Event {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:     sessionID,
		TestID:        testID,
		ChallengeID:   ch.ID,
		ChallengeType: ch.Type,
		TimeLimit:     ch.TimeLimit(),
		StartedAt:     startedAt,
	})
}

func NewChallengeResolvedEvent(result models.SessionResult) *Event {
	return newEvent(EventChallengeResolved, ChallengeResolvedEvent{SessionResult: result})
}

func NewSessionAbandonedEvent(sessionID, challengeID string, status models.SessionStatus) *Event {
	return newEvent(EventSessionAbandoned, SessionAbandonedEvent{
		SessionID:   sessionID,
		ChallengeID: challengeID,
		Status:      status,
		AbandonedAt: time.Now(),
	})
}

func NewProjectSavedEvent(project *models.Project) *Event {
	return newEvent(EventProjectSaved, ProjectSavedEvent{
		ProjectID: project.ID,
		TestCount: len(project.Tests),
		SavedAt:   time.Now(),
	})
}

func GenerateEventID() string {
	return uuid.NewString()
}
