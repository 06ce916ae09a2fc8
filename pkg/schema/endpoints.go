package schema

import (
	"github.com/google/uuid"
)

// Endpoint is a sub-record of an API node's configuration.
type Endpoint struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Method  string `json:"method"`
	Headers string `json:"headers"`
}

// NewEndpoint builds an empty endpoint with a fresh id and GET method.
func NewEndpoint() Endpoint {
	return Endpoint{
		ID:     "endpoint_" + uuid.NewString(),
		Method: "GET",
	}
}

// EndpointsFromConfig extracts the endpoint list from an API node's config.
// Missing or malformed entries are skipped; absence yields an empty list.
func EndpointsFromConfig(config map[string]any) []Endpoint {
	raw, ok := config["endpoints"].([]any)
	if !ok {
		return []Endpoint{}
	}

	endpoints := make([]Endpoint, 0, len(raw))

	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		endpoint := Endpoint{}
		endpoint.ID, _ = entry["id"].(string)
		endpoint.Path, _ = entry["path"].(string)
		endpoint.Method, _ = entry["method"].(string)
		endpoint.Headers, _ = entry["headers"].(string)
		endpoints = append(endpoints, endpoint)
	}

	return endpoints
}

// AppendEndpoint adds an endpoint to an API node's config, returning the
// updated config value for the endpoints key.
func AppendEndpoint(config map[string]any, endpoint Endpoint) map[string]any {
	endpoints := EndpointsFromConfig(config)
	endpoints = append(endpoints, endpoint)

	return withEndpoints(config, endpoints)
}

// UpdateEndpoint replaces the endpoint with the matching id.
func UpdateEndpoint(config map[string]any, endpoint Endpoint) map[string]any {
	endpoints := EndpointsFromConfig(config)
	for i, existing := range endpoints {
		if existing.ID == endpoint.ID {
			endpoints[i] = endpoint
		}
	}

	return withEndpoints(config, endpoints)
}

// DeleteEndpoint removes the endpoint with the given id.
func DeleteEndpoint(config map[string]any, id string) map[string]any {
	endpoints := EndpointsFromConfig(config)
	remaining := make([]Endpoint, 0, len(endpoints))

	for _, endpoint := range endpoints {
		if endpoint.ID != id {
			remaining = append(remaining, endpoint)
		}
	}

	return withEndpoints(config, remaining)
}

func withEndpoints(config map[string]any, endpoints []Endpoint) map[string]any {
	next := make(map[string]any, len(config)+1)
	for k, v := range config {
		next[k] = v
	}

	items := make([]any, 0, len(endpoints))
	for _, endpoint := range endpoints {
		items = append(items, map[string]any{
			"id":      endpoint.ID,
			"path":    endpoint.Path,
			"method":  endpoint.Method,
			"headers": endpoint.Headers,
		})
	}

	next["endpoints"] = items

	return next
}
