package kafka

import (
	"log"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// brokerAddr joins a broker's host and port; the controller is not always on
// the default port.
func brokerAddr(b kafka.Broker) string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// EnsureTopicsExist creates the booking-event topics on startup so the first
// publish never races topic auto-creation.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", brokerAddr(controller))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if err.Error() == "kafka server: topic already exists" {
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
			// Keep going; the remaining topics may still be creatable.
		}
	}

	// Give the cluster a moment to propagate metadata.
	time.Sleep(1 * time.Second)
	return nil
}
