package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"quickcart/internal/model"
)

func (c *Client) ListAddresses(ctx context.Context, phone string) ([]model.Address, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/users/addresses?phone="+url.QueryEscape(phone), nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList[model.Address](raw, "addresses")
}

func (c *Client) CreateAddress(ctx context.Context, a model.Address) (*model.Address, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/users/addresses", a, &raw); err != nil {
		return nil, err
	}
	return decodeAddress(raw, a)
}

func (c *Client) UpdateAddress(ctx context.Context, id string, a model.Address) (*model.Address, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/users/addresses/"+url.PathEscape(id), a, &raw); err != nil {
		return nil, err
	}
	return decodeAddress(raw, a)
}

func (c *Client) DeleteAddress(ctx context.Context, id, phone string) error {
	path := "/users/addresses/" + url.PathEscape(id) + "?phone=" + url.QueryEscape(phone)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// decodeAddress usa lo enviado si el backend responde sin cuerpo.
func decodeAddress(raw json.RawMessage, sent model.Address) (*model.Address, error) {
	if len(raw) == 0 {
		return &sent, nil
	}
	var a model.Address
	if err := unwrapObject(raw, "address", &a); err != nil {
		return nil, err
	}
	if a.ID == "" && a.Name == "" {
		return &sent, nil
	}
	return &a, nil
}
