package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/exam-prep-service/internal/errors"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
)

// BusinessValidator checks rules that span several fields
type BusinessValidator struct{}

// NewBusinessValidator creates a new business rule validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// Validate dispatches on the request type. Unknown types have no business rules.
func (v *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch req := s.(type) {
	case *models.StatsQuery:
		return v.ValidateStatsQuery(req)
	case *models.ExportRequest:
		return v.ValidateStatsQuery(&req.StatsQuery)
	case *models.UpdateProfileRequest:
		return v.ValidateProfileUpdate(req)
	}
	return nil
}

// ValidateStatsQuery rejects custom ranges whose start is after their end.
// A missing bound is not an error; it produces an empty selection.
func (v *BusinessValidator) ValidateStatsQuery(q *models.StatsQuery) ValidationErrors {
	var errs ValidationErrors
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		errs = append(errs, *errors.NewValidationErrorWithRule("start", errors.RuleMessage("date_range", ""), "date_range", q.Start))
	}
	return errs
}

// ValidateProfileUpdate rejects names that are blank once trimmed.
func (v *BusinessValidator) ValidateProfileUpdate(req *models.UpdateProfileRequest) ValidationErrors {
	var errs ValidationErrors
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
			errs = append(errs, *errors.NewValidationErrorWithRule("full_name", errors.RuleMessage("profile_name", ""), "profile_name", *req.FullName))
		}
	}
	return errs
}
