package switchnode

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// SwitchNodeFactory creates SwitchNode instances.
type SwitchNodeFactory struct{}

func NewSwitchNodeFactory() protocol.NodeFactory {
	return &SwitchNodeFactory{}
}

func (f *SwitchNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewSwitchNode(id, config)
}

func (f *SwitchNodeFactory) ID() string {
	return "switch"
}

func (f *SwitchNodeFactory) Name() string {
	return "Switch"
}

func (f *SwitchNodeFactory) Description() string {
	return "Routes execution to one of several named branches"
}

func (f *SwitchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rules": map[string]any{
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
						"output": map[string]any{
							"type":        "string",
							"description": "Edge handle to follow when this rule matches",
						},
					},
				},
			},
		},
	}
}
