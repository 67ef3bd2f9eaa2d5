package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// LeadEventHandler processa um evento consumido da fila.
type LeadEventHandler interface {
	HandleLeadEvent(ctx context.Context, event LeadEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Handler LeadEventHandler
	log     *logrus.Entry
}

func NewWorker(ch *amqp.Channel, handler LeadEventHandler) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
		log:     logger.For("queue_worker"),
	}
}

// Start consome queueName até ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.log.WithField("queue", queueName).Info("[*] Worker aguardando eventos")
	w.consume(ctx, msgs)
	return nil
}

func (w *Worker) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Worker encerrado")
			return
		case d, ok := <-msgs:
			if !ok {
				w.log.Warn("⚠️ Canal de entregas fechado")
				return
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.log.WithError(err).Error("❌ JSON inválido, enviando para DLQ")
		metrics.RecordEventError("decode")
		d.Nack(false, false)
		return
	}

	log := w.log.WithFields(logrus.Fields{"event_id": event.EventID, "type": event.Type})
	if err := w.Handler.HandleLeadEvent(ctx, event); err != nil {
		log.WithError(err).Error("❌ Falha ao processar evento")
		metrics.RecordEventError("handle")
		d.Nack(false, false)
		return
	}

	log.Debug("✅ Evento processado")
	d.Ack(false)
}
