package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"love", "happy", "best", "awesome", "perfect", "brilliant", "pleased",
	"delighted", "superb", "positive", "nice", "enjoy",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "worst", "hate", "poor",
	"disappointing", "disappointed", "angry", "sad", "negative", "broken",
	"useless", "annoying", "frustrating", "unhappy", "fail",
}

// SentimentNode scores text with a built-in keyword heuristic; it makes no
// provider calls.
type SentimentNode struct {
	id       string
	text     string
	detailed bool
}

func NewSentimentNode(id string, config map[string]any) (*SentimentNode, error) {
	text, ok := config["text"].(string)
	if !ok || text == "" {
		return nil, errors.New("missing required field 'text'")
	}

	node := &SentimentNode{
		id:   id,
		text: text,
	}

	node.detailed, _ = config["detailedAnalysis"].(bool)

	return node, nil
}

func (n *SentimentNode) ID() string {
	return n.id
}

func (n *SentimentNode) Type() string {
	return "aiSentiment"
}

func (n *SentimentNode) Execute(_ context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	lower := strings.ToLower(n.text)

	positive := countMatches(lower, positiveWords)
	negative := countMatches(lower, negativeWords)

	sentiment := "neutral"
	score := 0.0

	if total := positive + negative; total > 0 {
		score = float64(positive-negative) / float64(total)

		switch {
		case score > 0:
			sentiment = "positive"
		case score < 0:
			sentiment = "negative"
		}
	}

	data := map[string]any{
		"sentiment": sentiment,
		"score":     score,
	}

	if n.detailed {
		data["positiveMatches"] = positive
		data["negativeMatches"] = negative
		data["confidence"] = confidence(positive + negative)
	}

	return &models.NodeOutput{Data: data}, nil
}

func countMatches(text string, words []string) int {
	count := 0

	for _, word := range words {
		count += strings.Count(text, word)
	}

	return count
}

// confidence grows with the number of matched keywords, capped at 1.
func confidence(matches int) float64 {
	c := float64(matches) / 5.0
	if c > 1 {
		return 1
	}

	return c
}
