package schema

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/robfig/cron/v3"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

// ErrInvalidConfig indicates a config value rejected by field validation.
// Always a validation failure the user can retry, never a hard error.
var ErrInvalidConfig = errors.New("invalid node configuration")

const objectSchema = `{"type": "object"}`

var retryConfigSchema = `{
	"type": "object",
	"properties": {
		"maxRetries": {"type": "integer", "minimum": 0},
		"retryDelay": {"type": "integer", "minimum": 0},
		"backoffMultiplier": {"type": "number", "minimum": 1}
	},
	"additionalProperties": false
}`

var outputConfigSchema = `{
	"type": "object",
	"properties": {
		"path": {"type": "string"},
		"format": {"type": "string"}
	}
}`

// jsonFields maps "<serviceType>.<field>" to the JSON schema its value must
// satisfy when present.
var jsonFields = map[string]string{
	"api.headers":           objectSchema,
	"api.body":              objectSchema,
	"webhook.headers":       objectSchema,
	"webhook.retryConfig":   retryConfigSchema,
	"batch.retryConfig":     retryConfigSchema,
	"messaging.headers":     objectSchema,
	"messaging.retryConfig": retryConfigSchema,
	"output.config":         outputConfigSchema,
}

// numericFields lists text fields that must parse as positive integers.
var numericFields = map[string]bool{
	"webhook.timeout":   true,
	"batch.batchSize":   true,
	"batch.concurrency": true,
	"batch.timeout":     true,
}

// ValidateConfig checks a node's configuration against the field catalog.
// Empty values are always accepted: a half-filled panel is normal editing
// state. An unknown service type validates trivially.
func ValidateConfig(serviceType models.ServiceType, config map[string]any) error {
	fields := FieldsFor(serviceType)
	if len(fields) == 0 || len(config) == 0 {
		return nil
	}

	var errs []error

	for _, field := range fields {
		raw, present := config[field.Name]
		if !present {
			continue
		}

		value, isString := raw.(string)
		if !isString || strings.TrimSpace(value) == "" {
			continue
		}

		if err := validateField(serviceType, field, value); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateField(serviceType models.ServiceType, field Field, value string) error {
	key := string(serviceType) + "." + field.Name

	if field.Kind == FieldKindSelect {
		if !slices.Contains(field.Options, value) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidConfig, field.Name, strings.Join(field.Options, ", "))
		}

		return nil
	}

	if schemaJSON, ok := jsonFields[key]; ok {
		return validateJSON(field.Name, schemaJSON, value)
	}

	if numericFields[key] {
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidConfig, field.Name)
		}

		return nil
	}

	if key == "batch.schedule" {
		if _, err := cron.ParseStandard(value); err != nil {
			return fmt.Errorf("%w: %s is not a valid cron expression: %v", ErrInvalidConfig, field.Name, err)
		}

		return nil
	}

	if key == "filter.condition" || key == "transform.transformation" {
		if _, err := expr.Compile(value, expr.AllowUndefinedVariables()); err != nil {
			return fmt.Errorf("%w: %s does not compile: %v", ErrInvalidConfig, field.Name, err)
		}

		return nil
	}

	return nil
}

func validateJSON(fieldName, schemaJSON, value string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewStringLoader(value)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %v", ErrInvalidConfig, fieldName, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, fieldName, strings.Join(details, "; "))
	}

	return nil
}
