package rabbit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"quickcart/internal/model"
)

type StatusChangedConsumer struct {
	Service OrderEvents
	log     *zap.Logger
}

func NewStatusChangedConsumer(s OrderEvents, log *zap.Logger) *StatusChangedConsumer {
	return &StatusChangedConsumer{Service: s, log: log}
}

type StatusChangedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Message       struct {
		OrderID model.ID `json:"orderId"`
		Status  string   `json:"status"`
		Notes   string   `json:"notes"`
		Actor   string   `json:"actor"`
	} `json:"message"`
}

func (c *StatusChangedConsumer) Handle(ctx context.Context, msg []byte) error {
	var event StatusChangedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Warn("error parseando mensaje order_status_changed", zap.Error(err))
		return err
	}
	m := event.Message
	if m.OrderID == "" {
		return ErrMissingOrderID
	}

	if err := c.Service.ApplyRemoteStatus(ctx, m.OrderID.String(), m.Status, m.Notes, m.Actor); err != nil {
		c.log.Error("error aplicando cambio de estado",
			zap.String("orderId", m.OrderID.String()),
			zap.String("status", m.Status),
			zap.Error(err),
		)
		return err
	}

	c.log.Info("cambio de estado procesado", zap.String("orderId", m.OrderID.String()), zap.String("status", m.Status))
	return nil
}
