package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/eringen/newsdesk/logger"
)

// KafkaAnnouncer publishes announcements to a Kafka topic, keyed by post id.
type KafkaAnnouncer struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaAnnouncer creates a producer for brokers (comma separated bootstrap servers).
func NewKafkaAnnouncer(brokers, topic string) (*KafkaAnnouncer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// Delivery reports for messages produced without a private channel, and
	// client-level errors, end up here.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("kafka delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaAnnouncer{producer: p, topic: topic}, nil
}

// Announce produces a and waits for the delivery report or ctx cancellation.
func (k *KafkaAnnouncer) Announce(ctx context.Context, a Announcement) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	delivery := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(a.ID),
		Value:          data,
	}, delivery)
	if err != nil {
		return fmt.Errorf("produce announcement: %w", err)
	}

	select {
	case ev := <-delivery:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver announcement: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes outstanding messages for up to five seconds and closes the producer.
func (k *KafkaAnnouncer) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("kafka: %d announcements still queued at shutdown", remaining)
	}
	k.producer.Close()
}
