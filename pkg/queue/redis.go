package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/flowgraph-io/flowgraph/pkg/events"
)

const redisQueueKey = "flowgraph:execution:jobs"
const redisEventsKey = "flowgraph:execution:events"

// redisQueue delivers jobs through a Redis list. Enqueue pushes to the tail,
// consumers block-pop from the head, so jobs are spread across workers.
type redisQueue struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisQueue connects to Redis using a standard connection URL.
func NewRedisQueue(rawURL string, logger *slog.Logger) (Queue, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisQueue{
		client: client,
		logger: logger.With("module", "redis_queue"),
	}, nil
}

func (q *redisQueue) Enqueue(ctx context.Context, job *events.ExecutionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return q.client.RPush(ctx, redisQueueKey, payload).Err()
}

func (q *redisQueue) PublishEvent(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return q.client.RPush(ctx, redisEventsKey, payload).Err()
}

func (q *redisQueue) Subscribe(ctx context.Context, handler JobHandler) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.InfoContext(ctx, "Context cancelled, stopping queue consumer")

				return
			default:
				err := q.processMessage(ctx, handler)
				if err != nil {
					q.logger.ErrorContext(ctx, "Error processing message", "error", err)
					time.Sleep(1 * time.Second)
				}
			}
		}
	}()

	return nil
}

func (q *redisQueue) processMessage(ctx context.Context, handler JobHandler) error {
	result, err := q.client.BLPop(ctx, 1*time.Second, redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	var job events.ExecutionJob

	err = json.Unmarshal([]byte(result[1]), &job)
	if err != nil {
		q.logger.ErrorContext(ctx, "Failed to unmarshal execution job", "error", err)

		return nil
	}

	err = handler(ctx, &job)
	if err != nil {
		// Push the job back so another worker can pick it up.
		requeueErr := q.client.RPush(ctx, redisQueueKey, result[1]).Err()
		if requeueErr != nil {
			q.logger.ErrorContext(ctx, "Failed to requeue job", "error", requeueErr, "execution_id", job.ExecutionID)
		}

		return fmt.Errorf("execution job handler failed: %w", err)
	}

	return nil
}

func (q *redisQueue) Close() error {
	return q.client.Close()
}
