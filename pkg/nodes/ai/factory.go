package ai

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

var providerProperties = map[string]any{
	"provider": map[string]any{
		"type": "string",
		"enum": []string{ProviderOllama, ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGoogle},
	},
	"model":     map[string]any{"type": "string"},
	"apiKey":    map[string]any{"type": "string"},
	"ollamaUrl": map[string]any{"type": "string"},
}

func withProviderProperties(extra map[string]any) map[string]any {
	properties := make(map[string]any, len(providerProperties)+len(extra))

	for key, value := range providerProperties {
		properties[key] = value
	}

	for key, value := range extra {
		properties[key] = value
	}

	return properties
}

// ChatNodeFactory creates ChatNode instances.
type ChatNodeFactory struct{}

func NewChatNodeFactory() protocol.NodeFactory {
	return &ChatNodeFactory{}
}

func (f *ChatNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewChatNode(id, config)
}

func (f *ChatNodeFactory) ID() string {
	return "aiChat"
}

func (f *ChatNodeFactory) Name() string {
	return "AI Chat"
}

func (f *ChatNodeFactory) Description() string {
	return "Sends a prompt to an AI chat model"
}

func (f *ChatNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": withProviderProperties(map[string]any{
			"systemPrompt": map[string]any{"type": "string"},
			"prompt":       map[string]any{"type": "string"},
			"temperature": map[string]any{
				"type":    "number",
				"default": 0.7,
				"minimum": 0,
				"maximum": 2,
			},
			"maxTokens": map[string]any{
				"type":    "number",
				"default": 1000,
			},
		}),
		"required": []string{"prompt"},
	}
}

// TextGenerationNodeFactory creates TextGenerationNode instances.
type TextGenerationNodeFactory struct{}

func NewTextGenerationNodeFactory() protocol.NodeFactory {
	return &TextGenerationNodeFactory{}
}

func (f *TextGenerationNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewTextGenerationNode(id, config)
}

func (f *TextGenerationNodeFactory) ID() string {
	return "aiTextGeneration"
}

func (f *TextGenerationNodeFactory) Name() string {
	return "AI Text Generation"
}

func (f *TextGenerationNodeFactory) Description() string {
	return "Generates text content with an AI model"
}

func (f *TextGenerationNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": withProviderProperties(map[string]any{
			"contentType": map[string]any{
				"type":    "string",
				"enum":    []string{"article", "email", "summary", "custom"},
				"default": "custom",
			},
			"prompt": map[string]any{"type": "string"},
			"tone": map[string]any{
				"type":    "string",
				"enum":    []string{"professional", "casual", "friendly", "formal"},
				"default": "professional",
			},
		}),
		"required": []string{"prompt"},
	}
}

// ImageAnalysisNodeFactory creates ImageAnalysisNode instances.
type ImageAnalysisNodeFactory struct{}

func NewImageAnalysisNodeFactory() protocol.NodeFactory {
	return &ImageAnalysisNodeFactory{}
}

func (f *ImageAnalysisNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewImageAnalysisNode(id, config)
}

func (f *ImageAnalysisNodeFactory) ID() string {
	return "aiImageAnalysis"
}

func (f *ImageAnalysisNodeFactory) Name() string {
	return "AI Image Analysis"
}

func (f *ImageAnalysisNodeFactory) Description() string {
	return "Analyzes an image with an AI vision model"
}

func (f *ImageAnalysisNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": withProviderProperties(map[string]any{
			"imageUrl": map[string]any{"type": "string"},
			"analysisType": map[string]any{
				"type":    "string",
				"enum":    []string{"describe", "ocr", "objects", "custom"},
				"default": "describe",
			},
			"customPrompt": map[string]any{"type": "string"},
		}),
		"required": []string{"imageUrl"},
	}
}

// SentimentNodeFactory creates SentimentNode instances.
type SentimentNodeFactory struct{}

func NewSentimentNodeFactory() protocol.NodeFactory {
	return &SentimentNodeFactory{}
}

func (f *SentimentNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewSentimentNode(id, config)
}

func (f *SentimentNodeFactory) ID() string {
	return "aiSentiment"
}

func (f *SentimentNodeFactory) Name() string {
	return "Sentiment Analysis"
}

func (f *SentimentNodeFactory) Description() string {
	return "Scores text sentiment with a built-in keyword heuristic"
}

func (f *SentimentNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
			"detailedAnalysis": map[string]any{
				"type":    "boolean",
				"default": false,
			},
		},
		"required": []string{"text"},
	}
}
