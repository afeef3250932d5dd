// Package pricing calcula subtotal, tarifas y total de un pedido o carrito.
//
// Es la única implementación de la cadena de fallbacks: checkout, listados,
// detalle de pedido y factura usan el mismo Calculator.
package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"quickcart/internal/model"
)

type Config struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	HandlingFee           decimal.Decimal
}

// DefaultConfig: envío gratis desde 99, si no 29; manipulación fija de 5.
func DefaultConfig() Config {
	return Config{
		FreeDeliveryThreshold: decimal.NewFromInt(99),
		DeliveryFee:           decimal.NewFromInt(29),
		HandlingFee:           decimal.NewFromInt(5),
	}
}

type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	HandlingFee decimal.Decimal `json:"handling_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// MarshalJSON escribe los importes como números JSON.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal    json.Number `json:"subtotal"`
		DeliveryFee json.Number `json:"delivery_fee"`
		HandlingFee json.Number `json:"handling_fee"`
		Discount    json.Number `json:"discount"`
		Total       json.Number `json:"total"`
	}{
		Subtotal:    json.Number(b.Subtotal.String()),
		DeliveryFee: json.Number(b.DeliveryFee.String()),
		HandlingFee: json.Number(b.HandlingFee.String()),
		Discount:    json.Number(b.Discount.String()),
		Total:       json.Number(b.Total.String()),
	})
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config { return c.cfg }

// Calculate deriva los importes de un pedido (posiblemente incompleto).
// Si se pasa el carrito, sus líneas sustituyen a las del pedido para el
// subtotal. Los valores presentes en el pedido siempre ganan: el total del
// backend nunca se recalcula.
func (c *Calculator) Calculate(o *model.Order, cart []model.OrderItem) Breakdown {
	if o == nil {
		o = &model.Order{}
	}

	items := o.Items
	if len(cart) > 0 {
		items = cart
	}

	subtotal := o.Subtotal.Or(SumItems(items))

	fallbackDelivery := c.cfg.DeliveryFee
	if subtotal.GreaterThanOrEqual(c.cfg.FreeDeliveryThreshold) {
		fallbackDelivery = decimal.Zero
	}
	delivery := o.DeliveryFee.Or(fallbackDelivery)
	handling := o.HandlingFee.Or(c.cfg.HandlingFee)
	discount := o.Discount.Decimal()

	total := o.Total.Or(subtotal.Add(delivery).Add(handling).Sub(discount))

	return Breakdown{
		Subtotal:    subtotal,
		DeliveryFee: delivery,
		HandlingFee: handling,
		Discount:    discount,
		Total:       total,
	}
}

// Quote calcula el resumen de un carrito con un descuento opcional.
func (c *Calculator) Quote(items []model.OrderItem, discount model.Number) Breakdown {
	return c.Calculate(&model.Order{Items: items, Discount: discount}, nil)
}

// SumItems suma los totales de línea; sin líneas el subtotal es cero.
func SumItems(items []model.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
