package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/model"
	"quickcart/internal/order"
	"quickcart/internal/pricing"
)

// CheckoutRequest es lo que arma el storefront al confirmar el carrito.
type CheckoutRequest struct {
	Phone           string
	CustomerName    string
	Email           string
	Items           []model.OrderItem
	DeliveryAddress model.DeliveryAddress
	PaymentMethod   string
	Discount        model.Number
}

type CheckoutService struct {
	api      *api.Client
	orders   *OrderService
	notifier Notifier
	calc     *pricing.Calculator
	log      *zap.Logger

	// pedidos offline cuando el backend no responde
	offline bool
	now     func() time.Time
}

func NewCheckoutService(client *api.Client, orders *OrderService, notifier Notifier, calc *pricing.Calculator, offline bool, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		api:      client,
		orders:   orders,
		notifier: notifier,
		calc:     calc,
		log:      log,
		offline:  offline,
		now:      time.Now,
	}
}

// Quote es el resumen del carrito que muestra el checkout antes de pagar.
func (s *CheckoutService) Quote(items []model.OrderItem, discount model.Number) (pricing.Breakdown, error) {
	if len(items) == 0 {
		return pricing.Breakdown{}, ErrEmptyCart
	}
	if err := checkItems(items); err != nil {
		return pricing.Breakdown{}, err
	}
	return s.calc.Quote(items, discount), nil
}

// PlaceOrder valida el pedido completo antes de enviarlo: nunca se manda
// un pedido a medias.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest, actor Actor) (*OrderView, error) {
	if req.Phone == "" {
		req.Phone = actor.Phone
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	totals := s.calc.Quote(req.Items, req.Discount)
	payload := api.CreateOrderPayload{
		Phone:           normalizePhone(req.Phone),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Email:           strings.TrimSpace(req.Email),
		Items:           make([]api.CreateOrderItem, 0, len(req.Items)),
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentPending,
		DeliveryFee:     model.NumberFrom(totals.DeliveryFee),
		HandlingFee:     model.NumberFrom(totals.HandlingFee),
		Discount:        req.Discount,
	}
	for _, it := range req.Items {
		payload.Items = append(payload.Items, api.CreateOrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity.Decimal().IntPart(),
		})
	}

	created, err := s.api.CreateOrder(ctx, payload)
	if err != nil {
		if !api.IsUnavailable(err) || !s.offline {
			err = upstream(err, nil)
			publish(ctx, s.log, s.notifier, newNotification(model.NotifyOrderPlaced, "", "", actor, err))
			s.log.Warn("no se pudo crear el pedido", zap.String("phone", payload.Phone), zap.Error(err))
			return nil, err
		}
		s.log.Warn("backend no disponible, se registra el pedido offline", zap.Error(err))
		created = &model.Order{
			ID:      model.ID(strconv.FormatInt(s.now().UnixMilli(), 10)),
			Offline: true,
		}
	}

	s.complete(created, payload, req, totals)
	s.orders.registerPlaced(ctx, created, actor.Name(), true)

	publish(ctx, s.log, s.notifier, newNotification(model.NotifyOrderPlaced, created.ID.String(), created.Status, actor, nil))
	s.log.Info("pedido creado",
		zap.String("orderId", created.ID.String()),
		zap.String("total", totals.Total.StringFixed(2)),
		zap.Bool("offline", created.Offline),
	)

	v := s.orders.View(*created)
	return &v, nil
}

func (s *CheckoutService) check(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if err := checkItems(req.Items); err != nil {
		return err
	}
	if req.DeliveryAddress.IsZero() {
		return ErrAddressRequired
	}
	if req.DeliveryAddress.Address != nil {
		if err := validateStruct(req.DeliveryAddress.Address); err != nil {
			return err
		}
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return ErrPaymentRequired
	}
	if normalizePhone(req.Phone) == "" {
		return ErrPhoneRequired
	}
	return nil
}

func checkItems(items []model.OrderItem) error {
	var errs ValidationErrors
	for i, it := range items {
		if it.ProductID == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "is required"})
		}
		q := it.Quantity.Decimal()
		if !it.Quantity.Valid || !q.IsPositive() || !q.IsInteger() {
			errs = append(errs, FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: ErrInvalidQuantity.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// complete rellena lo que el backend no devolvió con lo enviado y con el
// cálculo local. Lo que sí devolvió se respeta (el total del backend gana).
func (s *CheckoutService) complete(o *model.Order, p api.CreateOrderPayload, req CheckoutRequest, totals pricing.Breakdown) {
	if o.Status == "" {
		o.Status = order.Pending.String()
	}
	if o.Phone == "" {
		o.Phone = p.Phone
	}
	if o.CustomerName == "" {
		o.CustomerName = p.CustomerName
	}
	if o.Email == "" {
		o.Email = p.Email
	}
	if o.DeliveryAddress.IsZero() {
		o.DeliveryAddress = p.DeliveryAddress
	}
	if o.PaymentMethod.Label == "" {
		o.PaymentMethod = model.PaymentMethod{Label: p.PaymentMethod}
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = p.PaymentStatus
	}
	if len(o.Items) == 0 {
		o.Items = append([]model.OrderItem(nil), req.Items...)
	}
	if !o.Subtotal.Valid {
		o.Subtotal = model.NumberFrom(totals.Subtotal)
	}
	if !o.DeliveryFee.Valid {
		o.DeliveryFee = model.NumberFrom(totals.DeliveryFee)
	}
	if !o.HandlingFee.Valid {
		o.HandlingFee = model.NumberFrom(totals.HandlingFee)
	}
	if !o.Discount.Valid {
		o.Discount = model.NumberFrom(totals.Discount)
	}
	if !o.Total.Valid {
		o.Total = model.NumberFrom(totals.Total)
	}
	if o.PlacedAt().IsZero() {
		o.CreatedAt = model.NewTimestamp(s.now().UTC())
	}
}
