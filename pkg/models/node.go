// Package models defines the core domain models for the workflow builder canvas.
package models

// ServiceType identifies the kind of service a node represents. It is fixed
// at node creation; changing it afterwards is unsupported.
type ServiceType string

const (
	ServiceTypeAPI       ServiceType = "api"
	ServiceTypeDatabase  ServiceType = "database"
	ServiceTypeTransform ServiceType = "transform"
	ServiceTypeFilter    ServiceType = "filter"
	ServiceTypeFunction  ServiceType = "function"
	ServiceTypeOutput    ServiceType = "output"
	ServiceTypeWebhook   ServiceType = "webhook"
	ServiceTypeBatch     ServiceType = "batch"
	ServiceTypeMessaging ServiceType = "messaging"
)

// ServiceTypes lists every supported service type in palette order.
func ServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypeAPI,
		ServiceTypeDatabase,
		ServiceTypeTransform,
		ServiceTypeFilter,
		ServiceTypeFunction,
		ServiceTypeOutput,
		ServiceTypeWebhook,
		ServiceTypeBatch,
		ServiceTypeMessaging,
	}
}

// IsValid reports whether the service type is one of the supported kinds.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceTypeAPI, ServiceTypeDatabase, ServiceTypeTransform,
		ServiceTypeFilter, ServiceTypeFunction, ServiceTypeOutput,
		ServiceTypeWebhook, ServiceTypeBatch, ServiceTypeMessaging:
		return true
	default:
		return false
	}
}

// NodeTypeService is the only node type rendered on the canvas.
const NodeTypeService = "service"

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries a node's display and configuration state. It is plain
// serializable data: rename and delete requests are routed through the
// canvas controller by node id, never through callbacks stored here.
type NodeData struct {
	Name        string         `json:"name"        validate:"required,min=1"`
	ServiceType ServiceType    `json:"serviceType" validate:"required"`
	Config      map[string]any `json:"config,omitempty"`
}

// Node is a typed unit of work placed on the workflow canvas.
type Node struct {
	ID       string   `json:"id"       validate:"required"`
	Type     string   `json:"type"     validate:"required"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Clone returns a deep copy of the node so snapshots never alias config
// state, including nested structures like the api endpoint list.
func (n Node) Clone() Node {
	clone := n
	clone.Data.Config = CloneConfig(n.Data.Config)

	return clone
}

// CloneConfig deep-copies a config map, recursing into nested maps and
// slices. A nil map stays nil.
func CloneConfig(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}

	clone := make(map[string]any, len(config))
	for key, value := range config {
		clone[key] = cloneConfigValue(value)
	}

	return clone
}

func cloneConfigValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CloneConfig(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = cloneConfigValue(item)
		}

		return items
	default:
		return v
	}
}
