package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return ToValidationErrors(err)
	}

	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("stats_period", validateStatsPeriod)
	validate.RegisterValidation("export_format", validateExportFormat)
	validate.RegisterValidation("view_metric", validateViewMetric)
	validate.RegisterValidation("chart_type", validateChartType)
	validate.RegisterValidation("sort_order", validateSortOrder)
	validate.RegisterValidation("language", validateLanguage)
	validate.RegisterValidation("timezone", validateTimezone)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// Custom validation functions
func validateStatsPeriod(fl validator.FieldLevel) bool {
	return stats.Period(fl.Field().String()).Valid()
}

func validateExportFormat(fl validator.FieldLevel) bool {
	return stats.ExportFormat(fl.Field().String()).Valid()
}

func validateViewMetric(fl validator.FieldLevel) bool {
	return stats.Metric(fl.Field().String()).Valid()
}

func validateChartType(fl validator.FieldLevel) bool {
	return stats.ChartType(fl.Field().String()).Valid()
}

func validateSortOrder(fl validator.FieldLevel) bool {
	return stats.SortOrder(fl.Field().String()).Valid()
}

func validateLanguage(fl validator.FieldLevel) bool {
	return stats.IsSupportedLocale(fl.Field().String())
}

func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}
