package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

// LeadNotifier avisa a equipe comercial sobre um preliminar novo.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, event LeadEvent) error
}

// Notifiers repassa o evento a cada notificador; falhas são agregadas.
type Notifiers []LeadNotifier

func (ns Notifiers) NotifyNewLead(ctx context.Context, event LeadEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyNewLead(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Consumer é o subconjunto de *amqp.Channel usado pelo worker.
type Consumer interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// LeadFinder relê o preliminar depois da carência.
type LeadFinder interface {
	FindByID(ctx context.Context, id string) (*entity.PreliminaryLead, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Leads    LeadFinder
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier LeadNotifier, leads LeadFinder, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Leads:    leads,
		Logger:   logger,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("notification worker waiting for messages", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("notification worker channel closed")
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("invalid lead event payload", zap.Error(err))
		// Mensagem malformada: rejeita sem requeue, vai para a DLQ.
		d.Nack(false, false)
		return
	}

	if event.Type != EventCaptured || !event.Created {
		d.Ack(false)
		return
	}

	if w.Leads != nil {
		lead, err := w.Leads.FindByID(ctx, event.LeadID)
		if errors.Is(err, entity.ErrLeadNotFound) {
			// Formulário enviado (ou expirado) durante a carência: não é abandono.
			w.Logger.Debug("lead released before notification", zap.String("lead_id", event.LeadID))
			d.Ack(false)
			return
		}
		if err != nil {
			w.Logger.Error("lead lookup failed", zap.String("lead_id", event.LeadID), zap.Error(err))
			d.Nack(false, false)
			return
		}
		// Dados mais recentes: o visitante pode ter continuado digitando.
		event.Name = lead.Name
		event.Email = lead.Email
		event.Phone = lead.Phone
		event.LandingURL = lead.LandingURL
	}

	if err := w.Notifier.NotifyNewLead(ctx, event); err != nil {
		w.Logger.Error("new lead notification failed",
			zap.String("lead_id", event.LeadID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}

	w.Logger.Info("new lead notified", zap.String("lead_id", event.LeadID))
	d.Ack(false)
}
