package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a Kafka consumer for one booking-event topic.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Start consumes booking events until the context is cancelled. Messages
// that fail to decode are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(event models.BookingStatusChangeEventDto)) {
	log.Println("Kafka consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event models.BookingStatusChangeEventDto
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("Failed to unmarshal booking event: %v", err)
			continue
		}

		handler(event)
	}
}

// Close gracefully shuts down the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
