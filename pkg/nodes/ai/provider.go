// Package ai provides the AI node handlers backed by LLM providers.
package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGroq      = "groq"
	ProviderGoogle    = "google"

	groqBaseURL = "https://api.groq.com/openai/v1"

	defaultOllamaURL = "http://localhost:11434"
)

// UnsupportedProviderError is returned when a node names a provider this
// build does not know. Unlike unknown node types, this is fatal for the node.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported AI provider: %s", e.Provider)
}

// ProviderConfig is the provider subset of an AI node's configuration.
type ProviderConfig struct {
	Provider  string
	Model     string
	APIKey    string
	OllamaURL string
}

func parseProviderConfig(config map[string]any, defaultProvider string) (ProviderConfig, error) {
	parsed := ProviderConfig{
		Provider:  defaultProvider,
		OllamaURL: defaultOllamaURL,
	}

	if provider, ok := config["provider"].(string); ok && provider != "" {
		parsed.Provider = provider
	}

	parsed.Model, _ = config["model"].(string)
	parsed.APIKey, _ = config["apiKey"].(string)

	if url, ok := config["ollamaUrl"].(string); ok && url != "" {
		parsed.OllamaURL = url
	}

	switch parsed.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderGroq, ProviderGoogle:
		return parsed, nil
	default:
		return parsed, &UnsupportedProviderError{Provider: parsed.Provider}
	}
}

// buildModel constructs the provider client. Fatal on unknown providers.
func buildModel(ctx context.Context, cfg ProviderConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}

		return openai.New(opts...)
	case ProviderGroq:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(groqBaseURL),
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}

		return openai.New(opts...)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}

		return anthropic.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithServerURL(cfg.OllamaURL)}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}

		return ollama.New(opts...)
	case ProviderGoogle:
		opts := []googleai.Option{googleai.WithAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(cfg.Model))
		}

		return googleai.New(ctx, opts...)
	default:
		return nil, &UnsupportedProviderError{Provider: cfg.Provider}
	}
}

// generate runs one prompt round-trip and returns the first choice.
func generate(ctx context.Context, model llms.Model, systemPrompt, prompt string, opts ...llms.CallOption) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)

	if systemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		})
	}

	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(prompt)},
	})

	resp, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Content, nil
}
