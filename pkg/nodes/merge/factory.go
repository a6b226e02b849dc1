package merge

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// MergeNodeFactory creates MergeNode instances.
type MergeNodeFactory struct{}

func NewMergeNodeFactory() protocol.NodeFactory {
	return &MergeNodeFactory{}
}

func (f *MergeNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewMergeNode(id, config)
}

func (f *MergeNodeFactory) ID() string {
	return "merge"
}

func (f *MergeNodeFactory) Name() string {
	return "Merge"
}

func (f *MergeNodeFactory) Description() string {
	return "Combines data arriving from multiple branches"
}

func (f *MergeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type":    "string",
				"enum":    []string{ModeAppend, ModeMerge},
				"default": ModeAppend,
			},
		},
	}
}
