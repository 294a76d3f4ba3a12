package queue

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.preliminaries"
	NotifyQueue  = "q.preliminaries.notify"
	DelayQueue   = "q.preliminaries.notify.delay"
	DLQName      = "q.preliminaries.notify.dlq"
	DLXName      = "ex.preliminaries.dlx" // Dead Letter Exchange

	RoutingKeyCaptured = "lead.captured"
	RoutingKeyReleased = "lead.released"
	RoutingKeySwept    = "lead.swept"
	RoutingKeyNotify   = "lead.notify" // capturas que venceram a carência
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewRabbitMQ conecta e declara a topologia. notifyDelay é a carência antes de
// avisar o comercial; mudar o valor exige recriar a fila de espera.
func NewRabbitMQ(url string, notifyDelay time.Duration) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch, notifyDelay); err != nil {
		ch.Close()
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

// Topologia: eventos de ciclo de vida vão para ex.preliminaries.
// lead.captured cai na fila de espera, sem consumidor; ao expirar o TTL a
// mensagem volta ao exchange como lead.notify e chega na fila de notificação,
// que tem DLQ para rejeitados.
func setupTopology(ch *amqp.Channel, notifyDelay time.Duration) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, RoutingKeyNotify, DLXName, false, nil); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(DelayQueue, true, false, false, false, delayQueueArgs(notifyDelay)); err != nil {
		return err
	}
	if err := ch.QueueBind(DelayQueue, RoutingKeyCaptured, ExchangeName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKeyNotify,
	}
	if _, err := ch.QueueDeclare(NotifyQueue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(NotifyQueue, RoutingKeyNotify, ExchangeName, false, nil)
}

func delayQueueArgs(notifyDelay time.Duration) amqp.Table {
	return amqp.Table{
		"x-message-ttl":             notifyDelay.Milliseconds(),
		"x-dead-letter-exchange":    ExchangeName,
		"x-dead-letter-routing-key": RoutingKeyNotify,
	}
}
