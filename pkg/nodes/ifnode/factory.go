package ifnode

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// IfNodeFactory creates IfNode instances.
type IfNodeFactory struct{}

func NewIfNodeFactory() protocol.NodeFactory {
	return &IfNodeFactory{}
}

func (f *IfNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewIfNode(id, config)
}

func (f *IfNodeFactory) ID() string {
	return "if"
}

func (f *IfNodeFactory) Name() string {
	return "IF"
}

func (f *IfNodeFactory) Description() string {
	return "Routes execution to the true or false branch based on conditions"
}

func (f *IfNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"field": map[string]any{"type": "string"},
						"operator": map[string]any{
							"type": "string",
							"enum": []string{"equals", "notEquals", "contains", "greaterThan", "lessThan"},
						},
						"value": map[string]any{},
					},
				},
			},
			"combineOperation": map[string]any{
				"type":    "string",
				"enum":    []string{"AND", "OR"},
				"default": "AND",
			},
		},
	}
}
