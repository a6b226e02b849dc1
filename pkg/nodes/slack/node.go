// Package slack provides the Slack message node handler, supporting incoming
// webhooks and bot-token API calls. Array input fans out per item with
// per-item expression resolution.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/expression"
	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	AuthWebhook = "webhook"
	AuthToken   = "token"

	defaultAPIURL = "https://slack.com/api/chat.postMessage"
)

type Config struct {
	Channel        string
	Text           string
	Authentication string
	WebhookURL     string
	BotToken       string
}

type SlackNode struct {
	id     string
	config Config
	client *http.Client
	apiURL string
}

func NewSlackNode(id string, config map[string]any) (*SlackNode, error) {
	parsed := Config{Authentication: AuthWebhook}

	parsed.Channel, _ = config["channel"].(string)

	text, ok := config["text"].(string)
	if !ok || text == "" {
		return nil, errors.New("missing required field 'text'")
	}

	parsed.Text = text

	if auth, ok := config["authentication"].(string); ok && auth != "" {
		parsed.Authentication = auth
	}

	parsed.WebhookURL, _ = config["webhookUrl"].(string)
	parsed.BotToken, _ = config["botToken"].(string)

	switch parsed.Authentication {
	case AuthWebhook:
		if parsed.WebhookURL == "" {
			return nil, errors.New("'webhookUrl' is required for webhook authentication")
		}
	case AuthToken:
		if parsed.BotToken == "" {
			return nil, errors.New("'botToken' is required for token authentication")
		}
	default:
		return nil, fmt.Errorf("invalid authentication: %s", parsed.Authentication)
	}

	return &SlackNode{
		id:     id,
		config: parsed,
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: defaultAPIURL,
	}, nil
}

func (n *SlackNode) ID() string {
	return n.id
}

func (n *SlackNode) Type() string {
	return "slack"
}

// Execute posts one message per input item, collecting a per-item report.
func (n *SlackNode) Execute(ctx context.Context, ec *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	items := asItems(input)

	report := make([]any, 0, len(items))
	sent := 0

	for index, item := range items {
		text := resolveText(n.config.Text, ec, item)
		channel := resolveText(n.config.Channel, ec, item)

		entry := map[string]any{"index": index}

		if err := n.post(ctx, channel, text); err != nil {
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

func (n *SlackNode) post(ctx context.Context, channel, text string) error {
	var (
		url     string
		payload map[string]any
		token   string
	)

	if n.config.Authentication == AuthToken {
		url = n.apiURL
		token = n.config.BotToken
		payload = map[string]any{"channel": channel, "text": text}
	} else {
		url = n.config.WebhookURL
		payload = map[string]any{"text": text}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("slack returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	// The chat.postMessage API reports failures in the body with HTTP 200.
	var apiResp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}

	if n.config.Authentication == AuthToken {
		if err := json.Unmarshal(respBody, &apiResp); err == nil && !apiResp.OK {
			return fmt.Errorf("slack API error: %s", apiResp.Error)
		}
	}

	return nil
}

func resolveText(text string, ec *models.ExecutionContext, item any) string {
	if ec == nil || text == "" {
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
