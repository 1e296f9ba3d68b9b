package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

// NotificationEvent mirrors an AppNotification onto the broker so external
// channels (mail, push) can pick it up.
type NotificationEvent struct {
	ID             uuid.UUID               `json:"id"`
	NotificationID string                  `json:"notification_id"`
	RecipientID    string                  `json:"recipient_id"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Body           string                  `json:"body"`
	Link           string                  `json:"link,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishNotificationEvent(event NotificationEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("there is no connection to RabbitMQ")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization error: %v", err)
	}

	routingKey := fmt.Sprintf("marketplace.notification.%s", event.Type)

	channel := p.client.Channel()
	err = channel.Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"recipient_id":    event.RecipientID,
				"notification_id": event.NotificationID,
				"type":            string(event.Type),
			},
		},
	)

	if err != nil {
		return fmt.Errorf("event publish error: %v", err)
	}

	log.Printf("Event published: %s -> %s", routingKey, event.RecipientID)
	return nil
}
