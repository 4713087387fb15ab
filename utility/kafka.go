package utility

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/c-m3-codin/gcollect/codec"
	"github.com/c-m3-codin/gcollect/models"
)

// Producer is the part of *kafka.Producer used to publish tasks.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

// PushToQueue sends one task to topic, keyed by task ID, and waits for the
// delivery report.
func PushToQueue(producer Producer, topic string, task models.Task, c codec.Codec) error {
	data, err := c.Marshal(task)
	if err != nil {
		slog.Error("Failed to encode task for Kafka", "task_id", task.ID, "content_type", c.ContentType(), "error", err)
		return fmt.Errorf("encoding task %s: %w", task.ID, err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(task.ID),
		Value:          data,
		Headers:        []kafka.Header{{Key: "content-type", Value: []byte(c.ContentType())}},
	}, deliveryChan)
	if err != nil {
		slog.Error("Failed to produce message to Kafka", "topic", topic, "task_id", task.ID, "error", err)
		return fmt.Errorf("producing task %s: %w", task.ID, err)
	}

	e := <-deliveryChan
	m, ok := e.(*kafka.Message)
	if !ok {
		return fmt.Errorf("unexpected delivery event for task %s: %v", task.ID, e)
	}
	if m.TopicPartition.Error != nil {
		slog.Error("Failed to deliver message to Kafka",
			"topic", topic,
			"partition", m.TopicPartition.Partition,
			"task_id", task.ID,
			"error", m.TopicPartition.Error)
		return fmt.Errorf("delivering task %s: %w", task.ID, m.TopicPartition.Error)
	}

	slog.Debug("Produced message to Kafka topic",
		"topic", topic,
		"key", string(m.Key),
		"partition", m.TopicPartition.Partition,
		"offset", m.TopicPartition.Offset.String())
	return nil
}

// KafkaPublisher publishes tasks to a fixed topic with a fixed codec.
type KafkaPublisher struct {
	Producer Producer
	Topic    string
	Codec    codec.Codec
}

func (kp *KafkaPublisher) Publish(task models.Task) error {
	return PushToQueue(kp.Producer, kp.Topic, task, kp.Codec)
}

// NewProducer creates and returns a new Kafka producer instance.
func NewProducer(bootstrapServers string) (*kafka.Producer, error) {
	config := &kafka.ConfigMap{"bootstrap.servers": bootstrapServers}
	p, err := kafka.NewProducer(config)
	if err != nil {
		slog.Error("Failed to create Kafka producer", "bootstrap_servers", bootstrapServers, "error", err)
		return nil, err
	}
	slog.Info("Kafka producer created successfully", "bootstrap_servers", bootstrapServers)
	return p, nil
}

// NewConsumer creates and returns a new Kafka consumer instance subscribed to the given topic.
func NewConsumer(bootstrapServers string, groupID string, topic string) (*kafka.Consumer, error) {
	config := &kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	}
	c, err := kafka.NewConsumer(config)
	if err != nil {
		slog.Error("Failed to create Kafka consumer",
			"bootstrap_servers", bootstrapServers,
			"group_id", groupID,
			"error", err)
		return nil, err
	}

	err = c.Subscribe(topic, nil)
	if err != nil {
		c.Close()
		slog.Error("Failed to subscribe to Kafka topic", "topic", topic, "error", err)
		return nil, err
	}
	slog.Info("Kafka consumer created and subscribed successfully",
		"bootstrap_servers", bootstrapServers,
		"group_id", groupID,
		"topic", topic)
	return c, nil
}
