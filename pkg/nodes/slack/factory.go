package slack

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// SlackNodeFactory creates SlackNode instances.
type SlackNodeFactory struct{}

func NewSlackNodeFactory() protocol.NodeFactory {
	return &SlackNodeFactory{}
}

func (f *SlackNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewSlackNode(id, config)
}

func (f *SlackNodeFactory) ID() string {
	return "slack"
}

func (f *SlackNodeFactory) Name() string {
	return "Slack"
}

func (f *SlackNodeFactory) Description() string {
	return "Sends messages to Slack via incoming webhook or bot token"
}

func (f *SlackNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"channel": map[string]any{"type": "string"},
			"text":    map[string]any{"type": "string"},
			"authentication": map[string]any{
				"type":    "string",
				"enum":    []string{AuthWebhook, AuthToken},
				"default": AuthWebhook,
			},
			"webhookUrl": map[string]any{"type": "string"},
			"botToken":   map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}
