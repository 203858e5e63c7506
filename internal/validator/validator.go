package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with challenge content rules
type Validator struct {
	structValidator    *validator.Validate
	challengeValidator *ChallengeValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New(validator.WithRequiredStructEnabled())

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:    structValidator,
		challengeValidator: NewChallengeValidator(structValidator),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s any) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and, for challenges, tests and projects,
// the content rules as well.
func (v *Validator) Validate(s any) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	var errs ValidationErrors
	switch value := s.(type) {
	case models.Challenge:
		errs = v.challengeValidator.Validate(value)
	case *models.Challenge:
		errs = v.challengeValidator.Validate(*value)
	case models.Test:
		errs = v.challengeValidator.ValidateTest(value)
	case *models.Test:
		errs = v.challengeValidator.ValidateTest(*value)
	case *models.Project:
		errs = v.challengeValidator.ValidateProject(value)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Challenge returns the challenge content validator
func (v *Validator) Challenge() *ChallengeValidator {
	return v.challengeValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("challenge_type", validateChallengeType)
	validate.RegisterValidation("picture_type", validatePictureType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateChallengeType(fl validator.FieldLevel) bool {
	return models.ChallengeType(fl.Field().String()).Valid()
}

func validatePictureType(fl validator.FieldLevel) bool {
	switch models.PictureType(fl.Field().String()) {
	case models.PictureNone, models.PictureURL:
		return true
	}
	return false
}
