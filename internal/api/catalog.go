package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Recursos del catálogo con CRUD en el backend.
const (
	ResourceCategories = "categories"
	ResourceProducts   = "products"
	ResourceOffers     = "offers"
	ResourceBanners    = "banners"
)

func IsCatalogResource(name string) bool {
	switch name {
	case ResourceCategories, ResourceProducts, ResourceOffers, ResourceBanners:
		return true
	}
	return false
}

func ListResource[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/"+resource, nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList[T](raw, resource)
}

// CreateResource y UpdateResource reenvían el cuerpo tal cual lo manda el
// back-office y devuelven la respuesta del backend.
func CreateResource(ctx context.Context, c *Client, resource string, body json.RawMessage) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/"+resource, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func UpdateResource(ctx context.Context, c *Client, resource, id string, body json.RawMessage) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/"+resource+"/"+url.PathEscape(id), body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func DeleteResource(ctx context.Context, c *Client, resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+resource+"/"+url.PathEscape(id), nil, nil)
}
