package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FollowUpClient receives captured leads, e.g. the CRM integration.
type FollowUpClient interface {
	CreateLead(ctx context.Context, event LeadCapturedEvent) (int, error)
}

type Worker struct {
	Channel *amqp.Channel
	CRM     FollowUpClient
}

func NewWorker(ch *amqp.Channel, crm FollowUpClient) *Worker {
	return &Worker{
		Channel: ch,
		CRM:     crm,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	slog.Info("follow-up worker waiting", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks on success and rejects without requeue otherwise, which routes
// the message to the dead-letter queue.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event LeadCapturedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		slog.Error("malformed lead event", "message_id", d.MessageId, "err", err)
		d.Nack(false, false)
		return
	}

	leadID, err := w.CRM.CreateLead(ctx, event)
	if err != nil {
		slog.Error("CRM follow-up failed", "email", event.Email, "err", err)
		d.Nack(false, false)
		return
	}

	slog.Info("lead pushed to CRM", "email", event.Email, "crm_lead_id", leadID)
	d.Ack(false)
}
