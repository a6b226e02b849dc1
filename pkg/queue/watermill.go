package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/flowgraph-io/flowgraph/pkg/events"
)

// watermillQueue adapts any Watermill publisher/subscriber pair to the Queue
// interface.
type watermillQueue struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
}

// NewMemoryQueue returns an in-process queue backed by a Watermill Go
// channel. Useful for single-binary deployments and tests.
func NewMemoryQueue(logger *slog.Logger) Queue {
	channel := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)

	return &watermillQueue{
		publisher:  channel,
		subscriber: channel,
		logger:     logger.With("module", "memory_queue"),
	}
}

func newWatermillQueue(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) Queue {
	return &watermillQueue{
		publisher:  pub,
		subscriber: sub,
		logger:     logger,
	}
}

func (q *watermillQueue) Enqueue(_ context.Context, job *events.ExecutionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("key", job.ExecutionID)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(job.GetType()))

	return q.publisher.Publish(events.ExecutionJobsTopic, msg)
}

func (q *watermillQueue) PublishEvent(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return q.publisher.Publish(events.ExecutionEventsTopic, msg)
}

func (q *watermillQueue) Subscribe(ctx context.Context, handler JobHandler) error {
	messages, err := q.subscriber.Subscribe(ctx, events.ExecutionJobsTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var job events.ExecutionJob

			err := json.Unmarshal(msg.Payload, &job)
			if err != nil {
				q.logger.ErrorContext(ctx, "Failed to unmarshal execution job", "error", err, "message_id", msg.UUID)
				msg.Ack()

				continue
			}

			err = handler(ctx, &job)
			if err != nil {
				q.logger.ErrorContext(ctx, "Execution job handler failed", "error", err, "execution_id", job.ExecutionID)
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (q *watermillQueue) Close() error {
	err := q.publisher.Close()
	if err != nil {
		return err
	}

	return q.subscriber.Close()
}
