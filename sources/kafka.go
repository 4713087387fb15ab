package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/c-m3-codin/gcollect/codec"
	"github.com/c-m3-codin/gcollect/constants"
	"github.com/c-m3-codin/gcollect/models"
)

// MessageReader is the part of *kafka.Consumer the Kafka source needs.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// KafkaSource drains task records from a subscribed Kafka consumer. Each call
// reads until MaxMessages records were taken or the topic stays quiet for a
// whole poll timeout.
type KafkaSource struct {
	reader      MessageReader
	codec       codec.Codec
	topic       string
	maxMessages int
	pollTimeout time.Duration
}

type KafkaOption func(*KafkaSource)

// WithCodec sets the codec used to decode message values. Default is JSON.
func WithCodec(c codec.Codec) KafkaOption {
	return func(k *KafkaSource) { k.codec = c }
}

func WithMaxMessages(n int) KafkaOption {
	return func(k *KafkaSource) { k.maxMessages = n }
}

func WithPollTimeout(d time.Duration) KafkaOption {
	return func(k *KafkaSource) { k.pollTimeout = d }
}

// WithTopicName only affects Name(); the consumer is already subscribed.
func WithTopicName(topic string) KafkaOption {
	return func(k *KafkaSource) { k.topic = topic }
}

func NewKafkaSource(reader MessageReader, opts ...KafkaOption) *KafkaSource {
	k := &KafkaSource{
		reader:      reader,
		codec:       codec.JSON(),
		maxMessages: constants.DefaultKafkaMaxMessages,
		pollTimeout: constants.DefaultKafkaPollTimeout,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *KafkaSource) Name() string {
	if k.topic == "" {
		return "kafka"
	}
	return "kafka:" + k.topic
}

func (k *KafkaSource) GetTasks() ([]models.Task, error) {
	return k.GetTasksContext(context.Background())
}

// GetTasksContext stops early when ctx is done and returns the records read
// so far.
func (k *KafkaSource) GetTasksContext(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for len(tasks) < k.maxMessages && ctx.Err() == nil {
		msg, err := k.reader.ReadMessage(k.pollTimeout)
		if err != nil {
			if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
				break
			}
			return nil, fmt.Errorf("reading from kafka: %w", err)
		}

		var record models.TaskRecord
		if err := k.codec.Unmarshal(msg.Value, &record); err != nil {
			slog.Warn("Skipping undecodable Kafka message",
				"topic", topicOf(msg),
				"offset", msg.TopicPartition.Offset.String(),
				"content_type", k.codec.ContentType(),
				"error", err)
			continue
		}
		if record.Payload == nil {
			slog.Debug("Skipping Kafka message without payload", "topic", topicOf(msg), "key", string(msg.Key))
			continue
		}

		switch {
		case record.ID != "":
			tasks = append(tasks, models.NewTaskWithID(record.ID, record.Payload))
		case len(msg.Key) > 0:
			tasks = append(tasks, models.NewTaskWithID(string(msg.Key), record.Payload))
		default:
			tasks = append(tasks, models.NewTask(record.Payload))
		}
	}
	return tasks, nil
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}
