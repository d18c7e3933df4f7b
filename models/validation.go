package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Value != "" {
		return fmt.Sprintf("%s: %s (value: %q)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ves ValidationErrors) Error() string {
	if len(ves) == 0 {
		return ""
	}
	if len(ves) == 1 {
		return ves[0].Error()
	}

	var messages []string
	for _, ve := range ves {
		messages = append(messages, ve.Error())
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

var (
	// Beanstalk application and environment names: letters, digits, hyphens.
	ebNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

	// Version labels additionally allow dots and underscores.
	versionLabelPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
)

// NewValidator creates a new validator with custom validation rules
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("eb_name", validateEBName)
	v.RegisterValidation("version_label", validateVersionLabel)

	return v
}

// ValidateGroup validates a group definition with detailed error messages
func ValidateGroup(g *Group) error {
	v := NewValidator()
	if err := v.Struct(g); err != nil {
		return convertValidatorErrors(err)
	}

	var errs ValidationErrors

	// Environment names must be unique within an application: a duplicate
	// would make batched status lookups ambiguous.
	seen := make(map[string]bool)
	for _, env := range g.Environments {
		key := env.App + "/" + env.Name
		if seen[key] {
			errs = append(errs, ValidationError{
				Field:   "environments",
				Message: "duplicate environment in group",
				Value:   key,
			})
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateHealthCheck validates a health-check configuration
func ValidateHealthCheck(field string, hc HealthCheckConfig) error {
	var errs ValidationErrors
	if hc.Attempts < 1 {
		errs = append(errs, ValidationError{
			Field:   field + ".attempts",
			Message: "must be at least 1",
			Value:   fmt.Sprintf("%d", hc.Attempts),
		})
	}
	if hc.Delay < 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".delay",
			Message: "must not be negative",
			Value:   hc.Delay.String(),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRunOptions validates the per-run options
func ValidateRunOptions(opts *RunOptions) error {
	var errs ValidationErrors
	for _, check := range []struct {
		field string
		hc    HealthCheckConfig
	}{
		{"pre_deploy_health_check", opts.PreDeployHealthCheck},
		{"post_deploy_health_check", opts.PostDeployHealthCheck},
	} {
		if err := ValidateHealthCheck(check.field, check.hc); err != nil {
			errs = append(errs, err.(ValidationErrors)...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// convertValidatorErrors converts go-playground validator errors to our custom format
func convertValidatorErrors(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errors ValidationErrors

		for _, ve := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   ve.Field(),
				Message: getValidationMessage(ve),
				Value:   fmt.Sprintf("%v", ve.Value()),
			})
		}

		return errors
	}

	return err
}

// getValidationMessage returns a human-readable message for validation errors
func getValidationMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "eb_name":
		return "must be a valid Beanstalk name (alphanumeric and hyphens, starting alphanumeric)"
	case "version_label":
		return "must be a valid version label (alphanumeric, dots, underscores, hyphens)"
	default:
		return ve.Error()
	}
}

// validateEBName validates Beanstalk application/environment names
func validateEBName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) == 0 || len(value) > 40 {
		return false
	}
	return ebNamePattern.MatchString(value)
}

// validateVersionLabel validates application version labels
func validateVersionLabel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) == 0 || len(value) > 100 {
		return false
	}
	return versionLabelPattern.MatchString(value)
}
