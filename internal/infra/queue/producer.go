package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publica mensagens de saída (é o usecase.Dispatcher em produção)
// e respostas de clientes vindas de fontes sem webhook.
type Producer struct {
	Ch publisher
}

func NewProducer(ch publisher) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) Dispatch(ctx context.Context, msg usecase.OutboundMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	return p.publish(ctx, OutboundRoutingKey, msg.ID, msg)
}

func (p *Producer) PublishReply(ctx context.Context, reply usecase.ReplyInput) error {
	if reply.MessageID == "" {
		reply.MessageID = uuid.New().String()
	}
	return p.publish(ctx, RepliesRoutingKey, reply.MessageID, reply)
}

func (p *Producer) publish(ctx context.Context, key, messageID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
