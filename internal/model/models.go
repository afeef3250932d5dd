// models.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
)

// Order es el pedido tal como lo devuelve el backend de QuickCart.
type Order struct {
	ID              ID              `json:"id"`
	CustomerName    string          `json:"customer_name,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status,omitempty"`
	Items           []OrderItem     `json:"items"`
	Subtotal        Number          `json:"subtotal"`
	DeliveryFee     Number          `json:"delivery_fee"`
	HandlingFee     Number          `json:"handling_fee"`
	Discount        Number          `json:"discount"`
	Total           Number          `json:"total"`
	Status          string          `json:"status"`
	CreatedAt       Timestamp       `json:"created_at"`
	Date            Timestamp       `json:"date"`
	Timeline        []StatusRecord  `json:"timeline,omitempty"`

	// Pedido sintetizado localmente porque el backend no respondía
	Offline bool `json:"offline,omitempty"`
}

// PlacedAt es la fecha del pedido: created_at o, si falta, date.
func (o *Order) PlacedAt() time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt.Time
	}
	return o.Date.Time
}

// Clone copia el pedido sin compartir slices ni punteros con el original.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	c.Timeline = append([]StatusRecord(nil), o.Timeline...)
	if o.DeliveryAddress.Address != nil {
		a := *o.DeliveryAddress.Address
		c.DeliveryAddress.Address = &a
	}
	return &c
}

type OrderItem struct {
	ProductID  ID     `json:"product_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Price      Number `json:"price"`
	Quantity   Number `json:"quantity"`
	Size       string `json:"size,omitempty"`
	TotalPrice Number `json:"total_price"`
}

// LineTotal: total_price del backend si existe, si no price * quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.TotalPrice.Valid {
		return i.TotalPrice.Value
	}
	return i.Price.Decimal().Mul(i.Quantity.Decimal())
}

// StatusRecord es una entrada del historial de estados.
type StatusRecord struct {
	Status    string    `bson:"status" json:"status"`
	Notes     string    `bson:"notes" json:"notes,omitempty"`
	Actor     string    `bson:"actor" json:"actor,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	// Para marcar cuál es el último
	Current bool `bson:"current" json:"current,omitempty"`
}

func (r *StatusRecord) UnmarshalJSON(b []byte) error {
	type alias StatusRecord
	aux := struct {
		*alias
		Timestamp Timestamp `json:"timestamp"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Timestamp = aux.Timestamp.Time
	return nil
}

// StatusHistory es el documento local con el historial observado de un pedido.
type StatusHistory struct {
	OrderID   string         `bson:"order_id" json:"orderId"`
	Phone     string         `bson:"phone" json:"phone"`
	Status    string         `bson:"status" json:"status"` // estado actual
	History   []StatusRecord `bson:"history" json:"history"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updatedAt"`
}

// Address es una dirección de entrega de un usuario (o de un invitado).
type Address struct {
	ID        ID     `json:"id,omitempty"`
	UserPhone string `json:"user_phone,omitempty"`
	Name      string `json:"name" validate:"required,personname"`
	Phone     string `json:"phone" validate:"required,phone"`
	House     string `json:"house" validate:"required,max=120"`
	Area      string `json:"area" validate:"required,max=120"`
	City      string `json:"city" validate:"required,max=60"`
	State     string `json:"state" validate:"required,max=60"`
	Pincode   string `json:"pincode" validate:"required,pincode"`
	Type      string `json:"type" validate:"omitempty,oneof=home office other"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// Format arma la dirección en una línea para facturas y listados.
func (a *Address) Format() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.House, a.Area, a.City, a.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	out := strings.Join(parts, ", ")
	if pin := strings.TrimSpace(a.Pincode); pin != "" {
		out = fmt.Sprintf("%s - %s", out, pin)
	}
	return out
}

// User es el usuario autenticado según el backend.
type User struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Disabled    bool     `json:"disabled,omitempty"`
}

func (u *User) IsAdmin() bool {
	if u.Role == "admin" {
		return true
	}
	for _, p := range u.Permissions {
		if p == "admin" {
			return true
		}
	}
	return false
}

// OrderStats son los agregados del back-office.
type OrderStats struct {
	TotalOrders     int    `json:"totalOrders"`
	TotalRevenue    Number `json:"totalRevenue"`
	PendingOrders   int    `json:"pendingOrders"`
	DeliveredOrders int    `json:"deliveredOrders"`
	CancelledOrders int    `json:"cancelledOrders"`
	Cached          bool   `json:"cached,omitempty"`
}

// Notification se publica tras cada acción que modifica un pedido.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	NotifyOrderPlaced   = "order.placed"
	NotifyStatusUpdated = "order.status_updated"
	NotifyOrderCanceled = "order.cancelled"
)
