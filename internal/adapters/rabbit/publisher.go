package rabbit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lesquel/mesaYa-Res-sub003/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const exchange = "mesaya.reservations"

// Publisher emits reservation events on a topic exchange, keyed by event type.
type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		MessageId:   uuid.New().String(),
		ContentType: "application/json",
		Timestamp:   event.OccurredAt,
		Body:        body,
	}
	return p.ch.PublishWithContext(ctx, exchange, event.Type, false, false, msg)
}
