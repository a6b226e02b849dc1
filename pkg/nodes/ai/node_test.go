package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response string
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.response, nil
}

func TestChatNodeGeneratesResponse(t *testing.T) {
	node, err := NewChatNode("ai-1", map[string]any{
		"provider":     ProviderOpenAI,
		"model":        "gpt-4",
		"systemPrompt": "You are terse.",
		"prompt":       "Summarize the order status.",
	})
	require.NoError(t, err)

	fake := &fakeModel{response: "All orders shipped."}
	node.model = fake

	output, err := node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	data := output.Data.(map[string]any)
	assert.Equal(t, "All orders shipped.", data["response"])
	assert.Equal(t, ProviderOpenAI, data["provider"])

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
}

func TestChatNodeRejectsUnknownProvider(t *testing.T) {
	_, err := NewChatNode("ai-1", map[string]any{
		"provider": "skynet",
		"prompt":   "hello",
	})
	require.Error(t, err)

	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "skynet", unsupported.Provider)
}

func TestChatNodeRequiresPrompt(t *testing.T) {
	_, err := NewChatNode("ai-1", map[string]any{"provider": ProviderOllama})
	require.Error(t, err)
}

func TestTextGenerationComposesPrompt(t *testing.T) {
	node, err := NewTextGenerationNode("ai-1", map[string]any{
		"provider":    ProviderOpenAI,
		"prompt":      "our new release",
		"contentType": "email",
		"tone":        "friendly",
	})
	require.NoError(t, err)

	fake := &fakeModel{response: "Hi all!"}
	node.model = fake

	output, err := node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi all!", output.Data.(map[string]any)["text"])

	prompt := fake.messages[0].Parts[0].(llms.TextContent).Text
	assert.Contains(t, prompt, "friendly email")
	assert.Contains(t, prompt, "our new release")
}

func TestImageAnalysisSendsImagePart(t *testing.T) {
	node, err := NewImageAnalysisNode("ai-1", map[string]any{
		"provider": ProviderOpenAI,
		"imageUrl": "https://example.com/cat.jpg",
	})
	require.NoError(t, err)

	fake := &fakeModel{response: "A cat on a couch."}
	node.model = fake

	output, err := node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "A cat on a couch.", output.Data.(map[string]any)["analysis"])

	parts := fake.messages[0].Parts
	require.Len(t, parts, 2)
	assert.IsType(t, llms.ImageURLContent{}, parts[1])
}

func TestSentimentHeuristic(t *testing.T) {
	node, err := NewSentimentNode("ai-1", map[string]any{
		"text": "This product is great, I love it. Really excellent.",
	})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	data := output.Data.(map[string]any)
	assert.Equal(t, "positive", data["sentiment"])
	assert.Greater(t, data["score"].(float64), 0.0)

	node, err = NewSentimentNode("ai-2", map[string]any{
		"text":             "Terrible experience, the worst. I hate it.",
		"detailedAnalysis": true,
	})
	require.NoError(t, err)

	output, err = node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	data = output.Data.(map[string]any)
	assert.Equal(t, "negative", data["sentiment"])
	assert.Equal(t, 3, data["negativeMatches"])

	node, err = NewSentimentNode("ai-3", map[string]any{
		"text": "The package arrived on Tuesday.",
	})
	require.NoError(t, err)

	output, err = node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "neutral", output.Data.(map[string]any)["sentiment"])
}
