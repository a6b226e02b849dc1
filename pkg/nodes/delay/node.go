// Package delay provides the wait node handler.
package delay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

var unitDurations = map[string]time.Duration{
	"milliseconds": time.Millisecond,
	"seconds":      time.Second,
	"minutes":      time.Minute,
	"hours":        time.Hour,
}

type DelayNode struct {
	id       string
	duration time.Duration
}

func NewDelayNode(id string, config map[string]any) (*DelayNode, error) {
	amount := 1.0
	if configured, ok := config["amount"].(float64); ok {
		amount = configured
	}

	if amount <= 0 {
		return nil, errors.New("'amount' must be a positive number")
	}

	unit := "seconds"
	if configured, ok := config["unit"].(string); ok && configured != "" {
		unit = configured
	}

	base, ok := unitDurations[unit]
	if !ok {
		return nil, fmt.Errorf("invalid unit: %s", unit)
	}

	return &DelayNode{
		id:       id,
		duration: time.Duration(amount * float64(base)),
	}, nil
}

func (n *DelayNode) ID() string {
	return n.id
}

func (n *DelayNode) Type() string {
	return "delay"
}

// Execute sleeps for the configured duration, then passes the input through.
// Cancelling the context ends the wait early.
func (n *DelayNode) Execute(ctx context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	timer := time.NewTimer(n.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &models.NodeOutput{Data: input}, nil
}
