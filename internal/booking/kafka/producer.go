package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// Producer publishes booking lifecycle events. One writer serves all three
// topics; the topic is picked per message.
type Producer struct {
	Writer *kafka.Writer
	Topics config.TopicConfig
	Logger *logger.Logger
}

func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

func (p *Producer) publish(topic string, booking models.Booking) error {
	dto, err := models.NewBookingStatusChangeEventDto(booking)
	if err != nil {
		return fmt.Errorf("invalid booking id for event: %w", err)
	}

	msgBytes, err := json.Marshal(dto)
	if err != nil {
		return err
	}

	if p.Logger != nil {
		p.Logger.LogKafka("publish", topic, string(msgBytes))
	}

	return p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(booking.BookingID),
		Value: msgBytes,
	})
}

// PublishBookingCreated streams the booking creation event.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	return p.publish(p.Topics.BookingCreated, booking)
}

// PublishBookingConfirmed streams the booking confirmation event.
func (p *Producer) PublishBookingConfirmed(booking models.Booking) error {
	return p.publish(p.Topics.BookingConfirmed, booking)
}

// PublishBookingCancelled streams the booking cancellation event.
func (p *Producer) PublishBookingCancelled(booking models.Booking) error {
	return p.publish(p.Topics.BookingCancelled, booking)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
