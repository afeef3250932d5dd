package rabbit

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"quickcart/internal/model"
)

// OrderEvents lo implementa service.OrderService.
type OrderEvents interface {
	ApplyPlaced(ctx context.Context, o model.Order) error
	ApplyRemoteStatus(ctx context.Context, orderID, status, notes, actor string) error
}

type PlaceOrderConsumer struct {
	Service OrderEvents
	log     *zap.Logger
}

func NewPlaceOrderConsumer(s OrderEvents, log *zap.Logger) *PlaceOrderConsumer {
	return &PlaceOrderConsumer{Service: s, log: log}
}

// El backend publica el pedido completo dentro de "message".
type PlacedOrderMessage struct {
	CorrelationID string      `json:"correlation_id"`
	Exchange      string      `json:"exchange"`
	RoutingKey    string      `json:"routing_key"`
	Message       model.Order `json:"message"`
}

var ErrMissingOrderID = errors.New("evento sin orderId")

func (c *PlaceOrderConsumer) Handle(ctx context.Context, msg []byte) error {
	var event PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Warn("error parseando mensaje order_placed", zap.Error(err))
		return err
	}
	if event.Message.ID == "" {
		return ErrMissingOrderID
	}

	if err := c.Service.ApplyPlaced(ctx, event.Message); err != nil {
		c.log.Error("error registrando pedido creado",
			zap.String("orderId", event.Message.ID.String()),
			zap.Error(err),
		)
		return err
	}

	c.log.Info("pedido creado procesado",
		zap.String("orderId", event.Message.ID.String()),
		zap.String("correlationId", event.CorrelationID),
	)
	return nil
}
