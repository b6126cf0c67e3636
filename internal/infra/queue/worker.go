package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/infra/http/middleware"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type ReplyHandler interface {
	Execute(ctx context.Context, input usecase.ReplyInput) (*usecase.ReplyOutput, error)
}

// ReplyForgetter libera o id de uma resposta que falhou para que a reentrega seja processada.
type ReplyForgetter interface {
	Forget(ctx context.Context, messageID string) error
}

// errPoison marca mensagens que nunca vão dar certo (JSON inválido etc).
var errPoison = errors.New("mensagem inválida")

type Worker struct {
	Channel   consumer
	Deliverer usecase.Dispatcher
	Replies   ReplyHandler
	Forgetter ReplyForgetter
}

func NewWorker(ch consumer, deliverer usecase.Dispatcher, replies ReplyHandler, forgetter ReplyForgetter) *Worker {
	return &Worker{
		Channel:   ch,
		Deliverer: deliverer,
		Replies:   replies,
		Forgetter: forgetter,
	}
}

// Start consome queueName até o ctx ser cancelado.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor na fila %s: %w", queueName, err)
	}

	log.WithField("queue", queueName).Info(" [*] Worker rodando e aguardando mensagens")

	for {
		select {
		case <-ctx.Done():
			log.WithField("queue", queueName).Info("⚠️ Worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo da fila %s fechado", queueName)
			}
			w.handle(ctx, queueName, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, queueName string, d amqp.Delivery) {
	var err error
	switch queueName {
	case OutboundQueue:
		err = w.processOutbound(ctx, d.Body)
	case RepliesQueue:
		err = w.processReply(ctx, d.Body)
	default:
		err = fmt.Errorf("%w: fila desconhecida %s", errPoison, queueName)
	}

	entry := log.WithFields(log.Fields{"queue": queueName, "message_id": d.MessageId})
	if err != nil {
		// Sem requeue: vai para a DLQ e não trava a fila.
		entry.WithError(err).Error("❌ [WORKER] Falha ao processar mensagem")
		d.Nack(false, false)
		return
	}
	entry.Debug("✅ [WORKER] Mensagem processada")
	d.Ack(false)
}

func (w *Worker) processOutbound(ctx context.Context, body []byte) error {
	var msg usecase.OutboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}

	if err := w.Deliverer.Dispatch(ctx, msg); err != nil {
		middleware.RecordDelivery(string(msg.Channel), "failed")
		middleware.RecordIntegrationError(string(msg.Channel))
		return err
	}
	middleware.RecordDelivery(string(msg.Channel), "sent")
	log.WithFields(log.Fields{"lead_id": msg.LeadID, "type": msg.Type, "channel": msg.Channel}).Info("📤 Mensagem entregue")
	return nil
}

func (w *Worker) processReply(ctx context.Context, body []byte) error {
	var input usecase.ReplyInput
	if err := json.Unmarshal(body, &input); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}

	out, err := w.Replies.Execute(ctx, input)
	RecordReplyMetrics(out, err)
	if err == nil || usecase.IsDomainError(err) {
		// conflito e validação já foram escalados; reprocessar não muda nada
		return nil
	}

	if w.Forgetter != nil && input.MessageID != "" {
		if ferr := w.Forgetter.Forget(ctx, input.MessageID); ferr != nil {
			log.WithError(ferr).Warn("⚠️ Não foi possível liberar o id da resposta")
		}
	}
	return err
}

// RecordReplyMetrics é compartilhado entre o webhook e o worker.
func RecordReplyMetrics(out *usecase.ReplyOutput, err error) {
	if errors.Is(err, usecase.ErrConcurrentBookingConflict) {
		middleware.RecordReply(string(usecase.OutcomeConflict))
		middleware.RecordBookingConflict()
		return
	}
	if err != nil || out == nil {
		return
	}
	middleware.RecordReply(string(out.Outcome))
	if out.Outcome == usecase.OutcomeBooked {
		middleware.RecordBookingCommitted()
	}
}
