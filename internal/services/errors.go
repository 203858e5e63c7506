package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	apperrors "github.com/SAP-F-2025/challenge-service/internal/errors"
	"github.com/SAP-F-2025/challenge-service/internal/evaluator"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Authoring errors
	ErrProjectNotFound    = errors.New("project not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrImmutableChallenge = errors.New("challenge id and type cannot change")
	ErrReorderMismatch    = errors.New("reorder ids must list every item exactly once")

	// Play errors
	ErrSessionNotFound = errors.New("session not found")
	ErrResultNotReady  = errors.New("session result not available yet")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string         `json:"rule"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value any) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]any) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		repositories.IsNotFoundError(err)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure, including
// player actions and designer input the core rejects
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, evaluator.ErrInvalidAction) ||
		errors.Is(err, evaluator.ErrInvalidState) ||
		errors.Is(err, evaluator.ErrOutOfRange) ||
		errors.Is(err, evaluator.ErrNotEditable) ||
		errors.Is(err, evaluator.ErrUnknownType) ||
		errors.Is(err, evaluator.ErrMalformedChallenge) ||
		errors.Is(err, designer.ErrWordOutOfRange) ||
		errors.Is(err, session.ErrInvalidTimeLimit) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) ||
		errors.Is(err, ErrImmutableChallenge) ||
		errors.Is(err, ErrReorderMismatch)
}

// IsConflict checks if error represents a state conflict, such as acting on
// a session that is no longer active
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrResultNotReady) ||
		errors.Is(err, session.ErrNotActive) ||
		errors.Is(err, session.ErrAlreadyStarted) ||
		errors.Is(err, session.ErrAlreadyResolved) ||
		errors.Is(err, session.ErrIncomplete) ||
		errors.Is(err, session.ErrClosed)
}
