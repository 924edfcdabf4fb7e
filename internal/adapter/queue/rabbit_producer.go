package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

// RabbitProducer publishes commerce events (cart.created,
// checkout.created) on a topic exchange. Downstream consumers (analytics,
// abandoned-cart jobs) bind their own queues; this side only declares the
// exchange.
type RabbitProducer struct {
	ch       *amqp.Channel
	exchange string
}

func NewRabbitProducer(ch *amqp.Channel, exchange string) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange}, nil
}

// Publish sends one event; the event name is the routing key.
func (p *RabbitProducer) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		event, // routing key
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitProducer)(nil)
