package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/restd/src/rest"
	"github.com/maksimkurb/restd/src/rest/response"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "field is required"
	case "min", "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", e.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", e.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	case "response_format":
		return fmt.Sprintf("must be one of: %s", joinFormats())
	case "table_variant":
		return fmt.Sprintf("must be one of: %s", joinVariants())
	case "action_name":
		return "must be one of: index, store, show, update, delete, deleteAll"
	case "resource_name":
		return "must start with a lowercase letter and consist only of [a-z0-9_-]"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For resources: the name of the resource (e.g., "notes")
	FieldPath string // Dot-notation field path (e.g., "general.listen_addr", "dispatch.envelope.body")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("response_format", validateResponseFormat); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("table_variant", validateTableVariant); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("action_name", validateActionName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("resource_name", validateResourceName); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: one of the built-in response formats, any case
func validateResponseFormat(fl validator.FieldLevel) bool {
	return response.ParseFormat(fl.Field().String()).Known()
}

// Custom validator: transition table variant
func validateTableVariant(fl validator.FieldLevel) bool {
	return slices.Contains(rest.Variants, rest.Variant(fl.Field().String()))
}

// Custom validator: logical action name
func validateActionName(fl validator.FieldLevel) bool {
	_, err := rest.ParseAction(fl.Field().String())
	return err == nil
}

// Custom validator: resource path segment
func validateResourceName(fl validator.FieldLevel) bool {
	return resourceNameRegexp.MatchString(fl.Field().String())
}

func joinFormats() string {
	names := make([]string, len(response.Formats))
	for i, f := range response.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func joinVariants() string {
	names := make([]string, len(rest.Variants))
	for i, v := range rest.Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
