package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

// TextGenerationNode produces content of a given type and tone.
type TextGenerationNode struct {
	id          string
	provider    ProviderConfig
	contentType string
	tone        string
	prompt      string

	model llms.Model
}

func NewTextGenerationNode(id string, config map[string]any) (*TextGenerationNode, error) {
	provider, err := parseProviderConfig(config, ProviderOpenAI)
	if err != nil {
		return nil, err
	}

	prompt, ok := config["prompt"].(string)
	if !ok || prompt == "" {
		return nil, errors.New("missing required field 'prompt'")
	}

	node := &TextGenerationNode{
		id:          id,
		provider:    provider,
		prompt:      prompt,
		contentType: "custom",
		tone:        "professional",
	}

	if contentType, ok := config["contentType"].(string); ok && contentType != "" {
		node.contentType = contentType
	}

	if tone, ok := config["tone"].(string); ok && tone != "" {
		node.tone = tone
	}

	return node, nil
}

func (n *TextGenerationNode) ID() string {
	return n.id
}

func (n *TextGenerationNode) Type() string {
	return "aiTextGeneration"
}

func (n *TextGenerationNode) Execute(ctx context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	model := n.model
	if model == nil {
		built, err := buildModel(ctx, n.provider)
		if err != nil {
			return nil, err
		}

		model = built
	}

	prompt := n.prompt
	if n.contentType != "custom" {
		prompt = fmt.Sprintf("Write a %s %s.\n\n%s", n.tone, n.contentType, n.prompt)
	}

	response, err := generate(ctx, model, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("AI text generation failed: %w", err)
	}

	return &models.NodeOutput{
		Data: map[string]any{
			"text":        response,
			"contentType": n.contentType,
			"tone":        n.tone,
			"provider":    n.provider.Provider,
		},
	}, nil
}
