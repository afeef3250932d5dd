package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickcart/internal/model"
)

// Notifier recibe el resultado de cada acción que modifica un pedido, tanto
// si salió bien como si falló.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// LogNotifier se usa cuando no hay RabbitMQ configurado.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(_ context.Context, n model.Notification) error {
	fields := []zap.Field{
		zap.String("type", n.Type),
		zap.String("orderId", n.OrderID),
		zap.String("status", n.Status),
		zap.String("actor", n.Actor),
	}
	if n.Success {
		l.log.Info(n.Message, fields...)
	} else {
		l.log.Warn(n.Message, fields...)
	}
	return nil
}

func newNotification(typ, orderID, status string, actor Actor, err error) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		OrderID:   orderID,
		Status:    status,
		Actor:     actor.Name(),
		Success:   err == nil,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		n.Message = err.Error()
		return n
	}
	switch typ {
	case model.NotifyOrderPlaced:
		n.Message = "Order placed successfully"
	case model.NotifyOrderCanceled:
		n.Message = "Order cancelled"
	default:
		n.Message = "Order status updated to " + status
	}
	return n
}

// publish nunca hace fallar la operación principal.
func publish(ctx context.Context, log *zap.Logger, n Notifier, msg model.Notification) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		log.Warn("no se pudo publicar la notificación", zap.String("orderId", msg.OrderID), zap.Error(err))
	}
}
