// Package invoice arma el modelo imprimible de una factura y lo dibuja en PDF.
package invoice

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quickcart/internal/model"
	"quickcart/internal/pricing"
)

var ErrNoItems = errors.New("el pedido no tiene productos para facturar")

const (
	defaultCustomer = "Guest User"
	defaultField    = "N/A"
	defaultProduct  = "Product"
	defaultPayment  = "Cash on Delivery"
)

type Merchant struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type Meta struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	OrderID       string    `json:"orderId"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	OrderDate     time.Time `json:"orderDate"`
	Status        string    `json:"status"`
}

type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Row struct {
	Index     int             `json:"index"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// MarshalJSON escribe los importes como números JSON.
func (r Row) MarshalJSON() ([]byte, error) {
	type row Row
	return json.Marshal(struct {
		row
		Quantity  json.Number `json:"quantity"`
		UnitPrice json.Number `json:"unitPrice"`
		LineTotal json.Number `json:"lineTotal"`
	}{
		row:       row(r),
		Quantity:  json.Number(r.Quantity.String()),
		UnitPrice: json.Number(r.UnitPrice.String()),
		LineTotal: json.Number(r.LineTotal.String()),
	})
}

type Payment struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

// Document es la factura lista para renderizar. Salvo GeneratedAt y
// Meta.InvoiceDate, el mismo pedido produce siempre el mismo documento.
type Document struct {
	Merchant    Merchant          `json:"merchant"`
	Meta        Meta              `json:"meta"`
	BillTo      Party             `json:"billTo"`
	Rows        []Row             `json:"rows"`
	Payment     Payment           `json:"payment"`
	Totals      pricing.Breakdown `json:"totals"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

type Assembler struct {
	merchant Merchant
	calc     *pricing.Calculator
	now      func() time.Time
}

func NewAssembler(m Merchant, calc *pricing.Calculator) *Assembler {
	return &Assembler{merchant: m, calc: calc, now: time.Now}
}

// Assemble no modifica el pedido recibido.
func (a *Assembler) Assemble(o *model.Order) (*Document, error) {
	if o == nil || len(o.Items) == 0 {
		return nil, ErrNoItems
	}
	now := a.now()

	// las filas y el subtotal se calculan con las mismas cantidades
	rows := make([]Row, 0, len(o.Items))
	billed := make([]model.OrderItem, 0, len(o.Items))
	for i, it := range o.Items {
		row := buildRow(i+1, it)
		rows = append(rows, row)
		it.Quantity = model.NumberFrom(row.Quantity)
		billed = append(billed, it)
	}

	return &Document{
		Merchant: a.merchant,
		Meta: Meta{
			InvoiceNumber: "INV-" + o.ID.String(),
			OrderID:       o.ID.String(),
			InvoiceDate:   now,
			OrderDate:     o.PlacedAt(),
			Status:        o.Status,
		},
		BillTo: Party{
			Name:    orDefault(o.CustomerName, defaultCustomer),
			Phone:   orDefault(o.Phone, defaultField),
			Email:   orDefault(o.Email, defaultField),
			Address: orDefault(o.DeliveryAddress.String(), defaultField),
		},
		Rows: rows,
		Payment: Payment{
			Method: orDefault(o.PaymentMethod.Label, defaultPayment),
			Status: orDefault(o.PaymentStatus, model.PaymentPending),
		},
		Totals:      a.calc.Calculate(o, billed),
		GeneratedAt: now,
	}, nil
}

func buildRow(index int, it model.OrderItem) Row {
	qty := it.Quantity.Decimal()
	if !it.Quantity.Valid || qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	price := it.Price.Decimal()

	line := price.Mul(qty)
	if it.TotalPrice.Valid {
		line = it.TotalPrice.Value
	}

	return Row{
		Index:     index,
		Name:      orDefault(it.Name, defaultProduct),
		Size:      it.Size,
		Quantity:  qty,
		UnitPrice: price,
		LineTotal: line,
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
