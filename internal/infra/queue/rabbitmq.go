package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.leads"
	DLXName      = "ex.dlx" // Dead Letter Exchange

	OutboundQueue      = "q.outbound"
	OutboundDLQ        = "q.outbound.dlq"
	OutboundRoutingKey = "k.outbound"

	RepliesQueue      = "q.replies"
	RepliesDLQ        = "q.replies.dlq"
	RepliesRoutingKey = "k.reply"
)

type binding struct {
	queue, dlq, key string
}

var bindings = []binding{
	{queue: OutboundQueue, dlq: OutboundDLQ, key: OutboundRoutingKey},
	{queue: RepliesQueue, dlq: RepliesDLQ, key: RepliesRoutingKey},
}

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao declarar topologia: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func (r *RabbitMQ) Close() {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.dlq, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(b.dlq, b.key, DLXName, false, nil); err != nil {
			return err
		}

		// Nack sem requeue manda a mensagem para a DLQ correspondente
		args := amqp.Table{
			"x-dead-letter-exchange":    DLXName,
			"x-dead-letter-routing-key": b.key,
		}
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, args); err != nil {
			return err
		}
		if err := ch.QueueBind(b.queue, b.key, ExchangeName, false, nil); err != nil {
			return err
		}
	}

	// um de cada vez por consumidor
	return ch.Qos(1, 0, false)
}
