package delay

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// DelayNodeFactory creates DelayNode instances.
type DelayNodeFactory struct{}

func NewDelayNodeFactory() protocol.NodeFactory {
	return &DelayNodeFactory{}
}

func (f *DelayNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewDelayNode(id, config)
}

func (f *DelayNodeFactory) ID() string {
	return "delay"
}

func (f *DelayNodeFactory) Name() string {
	return "Wait"
}

func (f *DelayNodeFactory) Description() string {
	return "Waits for a configured amount of time before continuing"
}

func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount": map[string]any{
				"type":    "number",
				"default": 1,
				"minimum": 0,
			},
			"unit": map[string]any{
				"type":    "string",
				"enum":    []string{"milliseconds", "seconds", "minutes", "hours"},
				"default": "seconds",
			},
		},
	}
}
