package models

import "time"

// ===== AUTHORING REQUESTS =====

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CreateTestRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Locale      string  `json:"locale" validate:"omitempty,bcp47_language_tag"`
}

type UpdateTestRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Locale      *string `json:"locale" validate:"omitempty,bcp47_language_tag"`
}

type CreateChallengeRequest struct {
	Type     ChallengeType `json:"type" validate:"required,challenge_type"`
	Question string        `json:"question"`
}

// ReorderRequest lists every child id in the wanted order.
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,dive,required"`
}

// ===== DESIGNER REQUESTS =====

type ToggleGapRequest struct {
	Sentence Sentence `json:"sentence"`
	Word     int      `json:"word" validate:"min=0"`
}

// ===== PLAY REQUESTS =====

type StartSessionRequest struct {
	TestID      string `json:"test_id" validate:"required"`
	ChallengeID string `json:"challenge_id" validate:"required"`
}

// ===== IMPORT / EXPORT =====

type ImportSummary struct {
	ProjectID       string                  `json:"project_id"`
	TotalTests      int                     `json:"total_tests"`
	TotalChallenges int                     `json:"total_challenges"`
	RenamedIDs      map[string]string       `json:"renamed_ids,omitempty"` // old id -> new id
	Errors          []ImportValidationError `json:"errors,omitempty"`
	ProcessingTime  time.Duration           `json:"processing_time"`
}

type ImportValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
