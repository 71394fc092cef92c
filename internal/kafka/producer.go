package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderMessage is the wire form of an order status change.
type OrderMessage struct {
	OrderID       string             `json:"order_id"`
	UserID        int64              `json:"user_id"`
	Flight        string             `json:"flight"`
	ClassType     string             `json:"class_type"`
	Status        string             `json:"status"`
	ContactName   string             `json:"contact_name"`
	ContactMobile string             `json:"contact_mobile"`
	Passengers    []PassengerMessage `json:"passengers"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

type PassengerMessage struct {
	Name                 string `json:"name"`
	AgeType              string `json:"age_type"`
	Mobile               string `json:"mobile"`
	IdentificationNumber string `json:"identification_number"`
	Price                int64  `json:"price"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *Producer) CheckConnection(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	log.Printf("Connected to Kafka. Available topics: %v", partitions)
	return nil
}
