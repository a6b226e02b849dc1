package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// ChatNode sends a prompt to a chat model and returns the response text.
type ChatNode struct {
	id           string
	provider     ProviderConfig
	systemPrompt string
	prompt       string
	temperature  float64
	maxTokens    int

	// model overrides the provider-built client, for tests.
	model llms.Model
}

func NewChatNode(id string, config map[string]any) (*ChatNode, error) {
	provider, err := parseProviderConfig(config, ProviderOllama)
	if err != nil {
		return nil, err
	}

	prompt, ok := config["prompt"].(string)
	if !ok || prompt == "" {
		return nil, errors.New("missing required field 'prompt'")
	}

	node := &ChatNode{
		id:          id,
		provider:    provider,
		prompt:      prompt,
		temperature: 0.7,
		maxTokens:   1000,
	}

	node.systemPrompt, _ = config["systemPrompt"].(string)

	if temperature, ok := config["temperature"].(float64); ok {
		node.temperature = temperature
	}

	if maxTokens, ok := config["maxTokens"].(float64); ok && maxTokens > 0 {
		node.maxTokens = int(maxTokens)
	}

	return node, nil
}

func (n *ChatNode) ID() string {
	return n.id
}

func (n *ChatNode) Type() string {
	return "aiChat"
}

func (n *ChatNode) Execute(ctx context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	model := n.model
	if model == nil {
		built, err := buildModel(ctx, n.provider)
		if err != nil {
			return nil, err
		}

		model = built
	}

	response, err := generate(ctx, model, n.systemPrompt, n.prompt,
		llms.WithTemperature(n.temperature),
		llms.WithMaxTokens(n.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("AI chat failed: %w", err)
	}

	return &models.NodeOutput{
		Data: map[string]any{
			"response": response,
			"provider": n.provider.Provider,
			"model":    n.provider.Model,
		},
	}, nil
}
