package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

var analysisPrompts = map[string]string{
	"describe": "Describe this image in detail.",
	"ocr":      "Extract all readable text from this image.",
	"objects":  "List the objects visible in this image.",
}

// ImageAnalysisNode sends an image URL to a vision-capable model.
type ImageAnalysisNode struct {
	id           string
	provider     ProviderConfig
	imageURL     string
	analysisType string
	customPrompt string

	model llms.Model
}

func NewImageAnalysisNode(id string, config map[string]any) (*ImageAnalysisNode, error) {
	provider, err := parseProviderConfig(config, ProviderOpenAI)
	if err != nil {
		return nil, err
	}

	imageURL, ok := config["imageUrl"].(string)
	if !ok || imageURL == "" {
		return nil, errors.New("missing required field 'imageUrl'")
	}

	node := &ImageAnalysisNode{
		id:           id,
		provider:     provider,
		imageURL:     imageURL,
		analysisType: "describe",
	}

	if analysisType, ok := config["analysisType"].(string); ok && analysisType != "" {
		node.analysisType = analysisType
	}

	node.customPrompt, _ = config["customPrompt"].(string)

	return node, nil
}

func (n *ImageAnalysisNode) ID() string {
	return n.id
}

func (n *ImageAnalysisNode) Type() string {
	return "aiImageAnalysis"
}

func (n *ImageAnalysisNode) Execute(ctx context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	model := n.model
	if model == nil {
		built, err := buildModel(ctx, n.provider)
		if err != nil {
			return nil, err
		}

		model = built
	}

	prompt := n.customPrompt
	if prompt == "" {
		prompt = analysisPrompts[n.analysisType]
		if prompt == "" {
			prompt = analysisPrompts["describe"]
		}
	}

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.ImageURLPart(n.imageURL),
			},
		},
	}

	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("AI image analysis failed: %w", err)
	}

	analysis := ""
	if resp != nil && len(resp.Choices) > 0 {
		analysis = resp.Choices[0].Content
	}

	return &models.NodeOutput{
		Data: map[string]any{
			"analysis":     analysis,
			"analysisType": n.analysisType,
			"imageUrl":     n.imageURL,
			"provider":     n.provider.Provider,
		},
	}, nil
}
