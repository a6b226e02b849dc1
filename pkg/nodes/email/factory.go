package email

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// EmailNodeFactory creates EmailNode instances.
type EmailNodeFactory struct{}

func NewEmailNodeFactory() protocol.NodeFactory {
	return &EmailNodeFactory{}
}

func (f *EmailNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewEmailNode(id, config)
}

func (f *EmailNodeFactory) ID() string {
	return "email"
}

func (f *EmailNodeFactory) Name() string {
	return "Send Email"
}

func (f *EmailNodeFactory) Description() string {
	return "Sends emails via SMTP, one per input item"
}

func (f *EmailNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fromEmail": map[string]any{"type": "string"},
			"toEmail": map[string]any{
				"type":        "string",
				"description": "Recipient address, supports {{$item....}} per item",
			},
			"subject": map[string]any{"type": "string"},
			"body":    map[string]any{"type": "string"},
			"html": map[string]any{
				"type":    "boolean",
				"default": false,
			},
			"smtpHost": map[string]any{"type": "string"},
			"smtpPort": map[string]any{
				"type":    "number",
				"default": 587,
			},
			"smtpUser":     map[string]any{"type": "string"},
			"smtpPassword": map[string]any{"type": "string"},
		},
		"required": []string{"fromEmail", "toEmail", "smtpHost"},
	}
}
