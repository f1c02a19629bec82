package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const notificationsTopic = "storefront-notifications"

// KafkaNotifier publishes notifications to a Kafka topic so storefront
// clients can render them. Writes happen off the caller's goroutine;
// failures are logged and dropped.
type KafkaNotifier struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  notificationsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, timeout: 5 * time.Second}
}

func (k *KafkaNotifier) Notify(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("failed to marshal notification: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
		defer cancel()

		// user ID as message key keeps one user's notifications ordered
		msg := kafka.Message{
			Key:   []byte(n.UserID),
			Value: payload,
		}
		if err := k.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("failed to publish notification: %v", err)
		}
	}()
}

func (k *KafkaNotifier) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("close notification writer: %w", err)
	}
	return nil
}
