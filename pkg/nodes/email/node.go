// Package email provides the SMTP email node handler. Array input fans out
// to one message per item, with per-item expression resolution; a single
// failed recipient is reported, not fatal.
package email

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/flowgraph-io/flowgraph/pkg/expression"
	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// Sender delivers one message. The default implementation dials SMTP; tests
// substitute a fake.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
	HTML    bool
}

type Config struct {
	FromEmail    string
	ToEmail      string
	Subject      string
	Body         string
	HTML         bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

type EmailNode struct {
	id     string
	config Config
	sender Sender
}

func NewEmailNode(id string, config map[string]any) (*EmailNode, error) {
	parsed := Config{SMTPPort: 587}

	for key, target := range map[string]*string{
		"fromEmail":    &parsed.FromEmail,
		"toEmail":      &parsed.ToEmail,
		"subject":      &parsed.Subject,
		"body":         &parsed.Body,
		"smtpHost":     &parsed.SMTPHost,
		"smtpUser":     &parsed.SMTPUser,
		"smtpPassword": &parsed.SMTPPassword,
	} {
		if value, ok := config[key].(string); ok {
			*target = value
		}
	}

	if parsed.FromEmail == "" || parsed.ToEmail == "" {
		return nil, errors.New("'fromEmail' and 'toEmail' are required")
	}

	if parsed.SMTPHost == "" {
		return nil, errors.New("missing required field 'smtpHost'")
	}

	if port, ok := config["smtpPort"].(float64); ok && port > 0 {
		parsed.SMTPPort = int(port)
	}

	if html, ok := config["html"].(bool); ok {
		parsed.HTML = html
	}

	node := &EmailNode{
		id:     id,
		config: parsed,
	}
	node.sender = &smtpSender{config: parsed}

	return node, nil
}

func (n *EmailNode) ID() string {
	return n.id
}

func (n *EmailNode) Type() string {
	return "email"
}

// Execute sends one message per input item, resolving $item expressions in
// the recipient, subject and body against each item. The output is a
// per-item delivery report.
func (n *EmailNode) Execute(ctx context.Context, ec *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	items := asItems(input)

	report := make([]any, 0, len(items))
	sent := 0

	for index, item := range items {
		msg := Message{
			From:    resolveText(n.config.FromEmail, ec, item),
			To:      resolveText(n.config.ToEmail, ec, item),
			Subject: resolveText(n.config.Subject, ec, item),
			Body:    resolveText(n.config.Body, ec, item),
			HTML:    n.config.HTML,
		}

		entry := map[string]any{
			"index": index,
			"to":    msg.To,
		}

		if err := n.sender.Send(ctx, msg); err != nil {
			entry["success"] = false
			entry["error"] = err.Error()
		} else {
			entry["success"] = true
			sent++
		}

		report = append(report, entry)
	}

	return &models.NodeOutput{
		Data: map[string]any{
			"sent":   sent,
			"failed": len(items) - sent,
			"report": report,
		},
	}, nil
}

func resolveText(text string, ec *models.ExecutionContext, item any) string {
	if ec == nil {
		return text
	}

	return fmt.Sprintf("%v", expression.ResolveWithItem(text, ec, item))
}

func asItems(input any) []any {
	switch typed := input.(type) {
	case nil:
		return []any{map[string]any{}}
	case []any:
		return typed
	default:
		return []any{typed}
	}
}

type smtpSender struct {
	config Config
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	m.Subject(msg.Subject)

	if msg.HTML {
		m.SetBodyString(gomail.TypeTextHTML, msg.Body)
	} else {
		m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	}

	client, err := gomail.NewClient(s.config.SMTPHost,
		gomail.WithPort(s.config.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.config.SMTPUser),
		gomail.WithPassword(s.config.SMTPPassword),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to build SMTP client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, m)
}
