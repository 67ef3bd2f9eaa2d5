package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	EventLeadCreated     = "lead.created"
	EventLeadFollowUpDue = "lead.followup_due"
)

type LeadEvent struct {
	EventID    string      `json:"event_id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Lead       entity.Lead `json:"lead"`
}

func NewLeadEvent(eventType string, lead entity.Lead, now time.Time) LeadEvent {
	return LeadEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Lead:       lead,
	}
}

// publisher é satisfeito por *amqp.Channel.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadCreated(ctx context.Context, lead entity.Lead) error {
	return p.Publish(ctx, NewLeadEvent(EventLeadCreated, lead, time.Now()))
}

func (p *RabbitMQProducer) PublishFollowUpDue(ctx context.Context, lead entity.Lead) error {
	return p.Publish(ctx, NewLeadEvent(EventLeadFollowUpDue, lead, time.Now()))
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.lead
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
