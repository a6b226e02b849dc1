package queue

import (
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
)

// NewKafkaQueue returns a queue backed by a Kafka topic via Watermill.
// Workers share the consumer group so each job is delivered to one worker.
func NewKafkaQueue(brokers []string, logger *slog.Logger) (Queue, error) {
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, errors.New("kafka brokers are required")
	}

	wmLogger := watermill.NewSlogLogger(logger)

	saramaSubscriberConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaSubscriberConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaSubscriberConfig,
			ConsumerGroup:         "cg-flowgraph-worker",
			OTELEnabled:           true,
		},
		wmLogger,
	)
	if err != nil {
		return nil, err
	}

	saramaPublisherConfig := sarama.NewConfig()
	saramaPublisherConfig.Producer.Return.Successes = true

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaPublisherConfig,
			OTELEnabled:           true,
		},
		wmLogger,
	)
	if err != nil {
		return nil, err
	}

	return newWatermillQueue(publisher, subscriber, logger.With("module", "kafka_queue")), nil
}
