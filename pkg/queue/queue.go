// Package queue provides the dispatch channel between the API and the
// workers. Jobs are delivered at-least-once; consumers are expected to be
// idempotent.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/flowgraph-io/flowgraph/pkg/events"
)

// JobHandler processes one execution job. Returning an error causes the
// message to be redelivered.
type JobHandler func(ctx context.Context, job *events.ExecutionJob) error

type Dispatcher interface {
	Enqueue(ctx context.Context, job *events.ExecutionJob) error
}

// EventPublisher emits lifecycle notifications on the events topic. Consumers
// of that topic are external; the engine itself only reads the jobs topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event events.Event) error
}

type Consumer interface {
	Subscribe(ctx context.Context, handler JobHandler) error
}

type Queue interface {
	Dispatcher
	EventPublisher
	Consumer
	Close() error
}

// NewFromURL selects a queue backend from a connection URL:
// memory:// for the in-process channel, kafka://broker1,broker2 for Kafka,
// redis://host:port/db for a Redis list.
func NewFromURL(rawURL string, logger *slog.Logger) (Queue, error) {
	if rawURL == "" {
		return nil, errors.New("queue URL is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid queue URL: %w", err)
	}

	switch parsed.Scheme {
	case "memory":
		return NewMemoryQueue(logger), nil
	case "kafka":
		brokers := strings.Split(parsed.Host, ",")

		return NewKafkaQueue(brokers, logger)
	case "redis", "rediss":
		return NewRedisQueue(rawURL, logger)
	default:
		return nil, fmt.Errorf("unsupported queue scheme: %s", parsed.Scheme)
	}
}
