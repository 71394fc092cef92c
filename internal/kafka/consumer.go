package kafka

import (
	"context"
	"time"

	"github.com/Domenick1991/flyhigh/config"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer builds a group reader for one topic, with the heartbeat and
// session intervals taken from config.
func NewConsumer(cfg config.KafkaConfig, topic string) *Consumer {
	heartbeat := time.Duration(cfg.HeartbeatIntervalSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = 3 * time.Second
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session <= 0 {
		session = 30 * time.Second
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}
