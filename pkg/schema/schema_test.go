package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Izguerra/workflow-builder/pkg/models"
)

func TestFieldsForEveryServiceType(t *testing.T) {
	for _, serviceType := range models.ServiceTypes() {
		fields := FieldsFor(serviceType)
		assert.NotEmpty(t, fields, string(serviceType))
	}
}

func TestFieldsForUnknownTypeYieldsEmptyList(t *testing.T) {
	fields := FieldsFor(models.ServiceType("mystery"))
	require.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestFieldsForIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, FieldsFor(models.ServiceTypeAPI), FieldsFor(models.ServiceType("API")))
}

func TestFieldsForReturnsCopies(t *testing.T) {
	fields := FieldsFor(models.ServiceTypeAPI)
	fields[0].Label = "tampered"

	assert.Equal(t, "API URL", FieldsFor(models.ServiceTypeAPI)[0].Label)
}

func TestValidateConfigAcceptsEmptyAndUnknown(t *testing.T) {
	assert.NoError(t, ValidateConfig(models.ServiceTypeAPI, nil))
	assert.NoError(t, ValidateConfig(models.ServiceType("mystery"), map[string]any{"x": "y"}))
	assert.NoError(t, ValidateConfig(models.ServiceTypeAPI, map[string]any{"url": "", "headers": "  "}))
}

func TestValidateConfigSelectOptions(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeAPI, map[string]any{"method": "PATCH"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeAPI, map[string]any{"method": "POST"}))
}

func TestValidateConfigJSONFields(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeAPI, map[string]any{"headers": "not json"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeAPI, map[string]any{
		"headers": `{"Content-Type": "application/json"}`,
	}))
}

func TestValidateConfigRetrySchema(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeWebhook, map[string]any{
		"retryConfig": `{"maxRetries": "three"}`,
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeWebhook, map[string]any{
		"retryConfig": `{"maxRetries": 3, "retryDelay": 1000}`,
	}))
}

func TestValidateConfigCronSchedule(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeBatch, map[string]any{"schedule": "every tuesday"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeBatch, map[string]any{"schedule": "0 0 * * *"}))
}

func TestValidateConfigFilterCondition(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeFilter, map[string]any{"condition": `item.status ==`})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeFilter, map[string]any{
		"condition": `item.status == "active" && item.age >= 18`,
	}))
}

func TestValidateConfigTransformation(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeTransform, map[string]any{"transformation": `map(input, `})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeTransform, map[string]any{
		"transformation": `map(input, {"id": #.id, "name": #.name})`,
	}))
}

func TestValidateConfigNumericFields(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeBatch, map[string]any{"batchSize": "lots"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.NoError(t, ValidateConfig(models.ServiceTypeBatch, map[string]any{"batchSize": "1000"}))
}

func TestValidateConfigCollectsAllFailures(t *testing.T) {
	err := ValidateConfig(models.ServiceTypeBatch, map[string]any{
		"schedule":  "nope",
		"batchSize": "many",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")
	assert.Contains(t, err.Error(), "batchSize")
}

func TestEndpointLifecycle(t *testing.T) {
	config := map[string]any{"endpoints": []any{}}

	endpoint := NewEndpoint()
	assert.NotEmpty(t, endpoint.ID)
	assert.Equal(t, "GET", endpoint.Method)

	endpoint.Path = "/api/orders"
	config = AppendEndpoint(config, endpoint)
	require.Len(t, EndpointsFromConfig(config), 1)

	endpoint.Method = "POST"
	config = UpdateEndpoint(config, endpoint)
	assert.Equal(t, "POST", EndpointsFromConfig(config)[0].Method)

	config = DeleteEndpoint(config, endpoint.ID)
	assert.Empty(t, EndpointsFromConfig(config))
}

func TestEndpointsFromConfigToleratesAbsence(t *testing.T) {
	assert.Empty(t, EndpointsFromConfig(map[string]any{}))
	assert.Empty(t, EndpointsFromConfig(map[string]any{"endpoints": "bad shape"}))
}
