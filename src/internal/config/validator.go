package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/restd/src/rest"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.General == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "general",
			Message:   "configuration must contain 'general' section",
		})
		return validationErrors
	}

	if err := validate.Struct(c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}

	if c.Dispatch != nil {
		if err := validate.Struct(c.Dispatch); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "dispatch", "")...)
		}
	}

	if c.Store == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "store",
			Message:   "configuration must contain 'store' section",
		})
	} else if err := validate.Struct(c.Store); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "store", "")...)
	}

	if len(c.Resources) == 0 {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "resource",
			Message:   "configuration must contain at least one resource",
		})
	} else {
		validationErrors = append(validationErrors, c.validateResources()...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateResources() ValidationErrors {
	var validationErrors ValidationErrors

	// Names and aliases share one path namespace
	seenPaths := make(map[string]string)

	for i, res := range c.Resources {
		itemName := res.Name
		if itemName == "" {
			itemName = fmt.Sprintf("resource[%d]", i)
		}

		structErr := validate.Struct(res)
		if structErr != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(structErr, fmt.Sprintf("resource.%d", i), itemName)...)
		}

		for _, path := range res.Paths() {
			if path == "" {
				continue
			}
			if owner, ok := seenPaths[path]; ok {
				validationErrors = append(validationErrors, ValidationError{
					ItemName:  itemName,
					FieldPath: "aliases",
					Message:   fmt.Sprintf("path %q is already used by resource %s", path, owner),
				})
				continue
			}
			seenPaths[path] = itemName
		}

		if structErr != nil {
			continue
		}

		// Let the dispatcher reject what the tags cannot express
		restCfg, err := c.ToRestConfig(res)
		if err == nil {
			_, err = rest.New(nil, restCfg)
		}
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "dispatch",
				Message:   err.Error(),
			})
		}
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				fieldName := e.Field()

				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + fieldName
				} else {
					fieldPath = fieldName
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
