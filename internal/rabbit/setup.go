// setup.go
package rabbit

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchanges son los nombres configurados (todos fanout).
type Exchanges struct {
	OrdersPlaced  string
	StatusChanged string
}

type handler func(ctx context.Context, body []byte) error

func SetupConsumers(ctx context.Context, ch *amqp091.Channel, svc OrderEvents, ex Exchanges, log *zap.Logger) error {
	placed := NewPlaceOrderConsumer(svc, log)
	changed := NewStatusChangedConsumer(svc, log)

	if err := subscribe(ctx, ch, "quickcart_orders_placed", ex.OrdersPlaced, placed.Handle, log); err != nil {
		return err
	}
	return subscribe(ctx, ch, "quickcart_orders_status", ex.StatusChanged, changed.Handle, log)
}

func declareFanout(ch *amqp091.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declarando exchange %s: %w", exchange, err)
	}
	return nil
}

func subscribe(ctx context.Context, ch *amqp091.Channel, queue, exchange string, h handler, log *zap.Logger) error {
	if err := declareFanout(ch, exchange); err != nil {
		return err
	}

	// 1. Declarar la queue (exclusiva para este servicio)
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declarando queue %s: %w", queue, err)
	}

	// 2. Bindear al exchange fanout (ignora routing key)
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return fmt.Errorf("binding %s -> %s: %w", exchange, q.Name, err)
	}

	// 3. Consumir con ack manual
	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumiendo %s: %w", q.Name, err)
	}

	go func() {
		for m := range msgs {
			dispatch(ctx, m, h, log)
		}
	}()

	log.Info("suscrito a exchange", zap.String("exchange", exchange), zap.String("queue", q.Name))
	return nil
}

// acknowledger es la parte de amqp091.Delivery que usa dispatch.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func dispatch(ctx context.Context, m amqp091.Delivery, h handler, log *zap.Logger) {
	handle(ctx, m.Body, m, h, log)
}

// Un mensaje que no se pudo procesar se descarta (sin requeue) para no
// bloquear la cola con un mensaje envenenado.
func handle(ctx context.Context, body []byte, ack acknowledger, h handler, log *zap.Logger) {
	if err := h(ctx, body); err != nil {
		if nerr := ack.Nack(false, false); nerr != nil {
			log.Warn("no se pudo hacer nack", zap.Error(nerr))
		}
		return
	}
	if err := ack.Ack(false); err != nil {
		log.Warn("no se pudo hacer ack", zap.Error(err))
	}
}
