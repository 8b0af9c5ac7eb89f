package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-prep-service/internal/errors"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Domain errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrExamNotFound    = errors.New("exam not found")
	ErrEmptyExport     = errors.New("nothing to export")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
	err     error
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

func (bre *BusinessRuleError) Unwrap() error {
	return bre.err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// newEmptyExportError wraps the aggregator's empty export error so callers can
// match it with IsBusinessRule, IsEmptyExport or errors.Is(err, ErrEmptyExport).
func newEmptyExportError(err *stats.EmptyExportError) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    "empty_export",
		Message: err.Error(),
		Context: map[string]interface{}{"format": string(err.Format)},
		err:     errors.Join(ErrEmptyExport, err),
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, repositories.ErrNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, stats.ErrUnsupportedFormat) {
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
	return errors.As(err, &bre)
}

// IsEmptyExport checks if error reports an export with no matching attempts
func IsEmptyExport(err error) bool {
	return errors.Is(err, ErrEmptyExport) || stats.IsEmptyExport(err)
}

func asEmptyExport(err error) (*stats.EmptyExportError, bool) {
	var empty *stats.EmptyExportError
	ok := errors.As(err, &empty)
	return empty, ok
}
