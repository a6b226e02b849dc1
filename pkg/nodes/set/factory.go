package set

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// SetNodeFactory creates SetNode instances.
type SetNodeFactory struct{}

func NewSetNodeFactory() protocol.NodeFactory {
	return &SetNodeFactory{}
}

func (f *SetNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewSetNode(id, config)
}

func (f *SetNodeFactory) ID() string {
	return "set"
}

func (f *SetNodeFactory) Name() string {
	return "Set"
}

func (f *SetNodeFactory) Description() string {
	return "Sets or deletes fields on the input object"
}

func (f *SetNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type":    "string",
				"enum":    []string{ModeSet, ModeDelete},
				"default": ModeSet,
			},
			"values": map[string]any{
				"type":        "object",
				"description": "Fields to set, or keys to delete in delete mode",
			},
		},
	}
}
