package models

import "time"

type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionActive  SessionStatus = "active"
	SessionSuccess SessionStatus = "success"
	SessionFailure SessionStatus = "failure"
)

// Resolved reports whether the status is terminal.
func (s SessionStatus) Resolved() bool {
	return s == SessionSuccess || s == SessionFailure
}

type ResolutionReason string

const (
	ReasonCheck   ResolutionReason = "check"
	ReasonTimeout ResolutionReason = "timeout"
	ReasonAuto    ResolutionReason = "auto"
)

// SessionResult is the outcome of playing one challenge.
type SessionResult struct {
	SessionID     string           `json:"session_id"`
	TestID        string           `json:"test_id,omitempty"`
	ChallengeID   string           `json:"challenge_id"`
	ChallengeType ChallengeType    `json:"challenge_type"`
	Status        SessionStatus    `json:"status"`
	Reason        ResolutionReason `json:"reason"`
	Complete      bool             `json:"complete"`
	Remaining     int              `json:"remaining_seconds"`
	ResolvedAt    time.Time        `json:"resolved_at"`
}

func (r SessionResult) Success() bool {
	return r.Status == SessionSuccess
}

// TestResult aggregates the results of the sessions played for one test.
type TestResult struct {
	TestID     string          `json:"test_id"`
	Total      int             `json:"total"`
	Played     int             `json:"played"`
	Correct    int             `json:"correct"`
	Percentage float64         `json:"percentage"`
	Results    []SessionResult `json:"results"`
}
