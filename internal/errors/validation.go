package errors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validatorErr, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validatorErr {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: RuleMessage(err.Tag(), err.Param()),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// ruleMessages holds the parameterless messages of the struct tags and
// business rules used by the request models.
var ruleMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",

	// Custom validators
	"stats_period":  "must be a valid period (week, month, quarter, year, all, custom)",
	"export_format": "must be a valid export format (csv, json, xlsx)",
	"view_metric":   "must be a valid metric (score, time, completion)",
	"chart_type":    "must be a valid chart type (line, area, bar)",
	"sort_order":    "must be a valid sort order (date_desc, date_asc, score_desc, score_asc)",
	"language":      "must be a supported language (ar, en)",
	"timezone":      "must be a valid IANA time zone",

	// Business rules
	"date_range":   "start must not be after end",
	"profile_name": "must be between 2 and 100 characters",
}

// RuleMessage returns the user-facing message of a validation rule.
func RuleMessage(rule, param string) string {
	switch rule {
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		return fmt.Sprintf("must be at most %s", param)
	}
	if msg, ok := ruleMessages[rule]; ok {
		return msg
	}
	return fmt.Sprintf("validation failed for rule '%s'", rule)
}
