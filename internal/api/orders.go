package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"quickcart/internal/model"
)

type CreateOrderItem struct {
	ProductID model.ID `json:"product_id"`
	Quantity  int64    `json:"quantity"`
}

// CreateOrderPayload es el cuerpo de POST /orders/create.
type CreateOrderPayload struct {
	Phone           string                `json:"phone"`
	CustomerName    string                `json:"customer_name,omitempty"`
	Email           string                `json:"email,omitempty"`
	Items           []CreateOrderItem     `json:"items"`
	DeliveryAddress model.DeliveryAddress `json:"delivery_address"`
	PaymentMethod   string                `json:"payment_method"`
	PaymentStatus   string                `json:"payment_status"`
	DeliveryFee     model.Number          `json:"delivery_fee"`
	HandlingFee     model.Number          `json:"handling_fee"`
	Discount        model.Number          `json:"discount"`
}

type statusPayload struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, p CreateOrderPayload) (*model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/orders/create", p, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// ListOrders devuelve todos los pedidos o, con phone, solo los de ese cliente.
func (c *Client) ListOrders(ctx context.Context, phone string) ([]model.Order, error) {
	path := "/orders"
	if phone != "" {
		path += "?phone=" + url.QueryEscape(phone)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList[model.Order](raw, "orders")
}

func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// UpdateOrderStatus devuelve el pedido actualizado. Si el backend no lo
// incluye en la respuesta, devuelve nil sin error.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status, notes string) (*model.Order, error) {
	var raw json.RawMessage
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, statusPayload{Status: status, Notes: notes}, &raw); err != nil {
		return nil, err
	}
	return decodeOptionalOrder(raw)
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/cancel", nil, &raw); err != nil {
		return nil, err
	}
	return decodeOptionalOrder(raw)
}

func (c *Client) OrderStats(ctx context.Context) (*model.OrderStats, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders/stats", nil, &raw); err != nil {
		return nil, err
	}
	var stats model.OrderStats
	if err := unwrapObject(raw, "stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func decodeOrder(raw json.RawMessage) (*model.Order, error) {
	var o model.Order
	if err := unwrapObject(raw, "order", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func decodeOptionalOrder(raw json.RawMessage) (*model.Order, error) {
	o, err := decodeOrder(raw)
	if err != nil || o.ID == "" {
		return nil, nil
	}
	return o, nil
}
