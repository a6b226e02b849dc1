package trigger

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// ManualTriggerNodeFactory creates manual trigger nodes.
type ManualTriggerNodeFactory struct{}

func NewManualTriggerNodeFactory() protocol.NodeFactory {
	return &ManualTriggerNodeFactory{}
}

func (f *ManualTriggerNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewTriggerNode(id, "trigger", config)
}

func (f *ManualTriggerNodeFactory) ID() string {
	return "trigger"
}

func (f *ManualTriggerNodeFactory) Name() string {
	return "Manual Trigger"
}

func (f *ManualTriggerNodeFactory) Description() string {
	return "Manually starts the workflow"
}

func (f *ManualTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"triggerType": map[string]any{
				"type":    "string",
				"enum":    []string{"manual", "scheduled"},
				"default": "manual",
			},
		},
	}
}

// WebhookTriggerNodeFactory creates webhook trigger nodes. The ingress layer
// matches incoming requests against the node's path and auth configuration;
// at execution time the node passes the captured request payload through.
type WebhookTriggerNodeFactory struct{}

func NewWebhookTriggerNodeFactory() protocol.NodeFactory {
	return &WebhookTriggerNodeFactory{}
}

func (f *WebhookTriggerNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewTriggerNode(id, "webhook", config)
}

func (f *WebhookTriggerNodeFactory) ID() string {
	return "webhook"
}

func (f *WebhookTriggerNodeFactory) Name() string {
	return "Webhook"
}

func (f *WebhookTriggerNodeFactory) Description() string {
	return "Starts the workflow from an incoming webhook request"
}

func (f *WebhookTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "URL path for this webhook",
			},
			"method": map[string]any{
				"type":    "string",
				"enum":    []string{"GET", "POST", "PUT", "DELETE"},
				"default": "POST",
			},
			"authentication": map[string]any{
				"type":    "string",
				"enum":    []string{"none", "headerAuth", "queryAuth"},
				"default": "none",
			},
			"authKey":   map[string]any{"type": "string"},
			"authValue": map[string]any{"type": "string"},
		},
		"required": []string{"path"},
	}
}

// ScheduleTriggerNodeFactory creates schedule trigger nodes. The scheduler
// reads the node's interval/cron configuration at startup; at execution time
// the node passes the {scheduledAt, scheduleConfig} payload through.
type ScheduleTriggerNodeFactory struct{}

func NewScheduleTriggerNodeFactory() protocol.NodeFactory {
	return &ScheduleTriggerNodeFactory{}
}

func (f *ScheduleTriggerNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewTriggerNode(id, "schedule", config)
}

func (f *ScheduleTriggerNodeFactory) ID() string {
	return "schedule"
}

func (f *ScheduleTriggerNodeFactory) Name() string {
	return "Schedule Trigger"
}

func (f *ScheduleTriggerNodeFactory) Description() string {
	return "Starts the workflow on a recurring schedule"
}

func (f *ScheduleTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"enabled": map[string]any{
				"type":    "boolean",
				"default": false,
			},
			"scheduleType": map[string]any{
				"type":    "string",
				"enum":    []string{"interval", "cron"},
				"default": "interval",
			},
			"interval": map[string]any{
				"type":    "number",
				"default": 5,
			},
			"unit": map[string]any{
				"type":    "string",
				"enum":    []string{"seconds", "minutes", "hours", "days"},
				"default": "minutes",
			},
			"cronExpression": map[string]any{"type": "string"},
			"timezone": map[string]any{
				"type":    "string",
				"default": "UTC",
			},
		},
	}
}
