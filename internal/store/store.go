// Package store es la caché local de último valor conocido: la versión en
// servidor del localStorage del storefront.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quickcart/internal/logger"
)

var ErrNotFound = errors.New("clave no encontrada")

// Claves persistidas (mismos nombres que usaba el storefront).
const (
	KeyAddresses   = "addresses"
	KeyCategories  = "categories"
	KeyProducts    = "products"
	KeyOffers      = "offers"
	KeyBanners     = "banners"
	KeyUserOrders  = "userOrders"
	KeyAllOrders   = "allOrders"
	KeyOrderStats  = "orderStats"
	KeyCurrentUser = "currentUser"
	KeyAuthToken   = "authToken"
)

// Store guarda valores JSON por clave.
type Store interface {
	// Get devuelve ErrNotFound si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Scoped separa los valores por usuario o sesión ("userOrders:9876543210").
func Scoped(key, scope string) string {
	if scope == "" {
		return key
	}
	return key + ":" + scope
}

// LoadJSON lee y decodifica una clave. Un valor ausente o corrupto no es
// un error: devuelve el valor cero y ok=false.
func LoadJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T

	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Get().Warn("no se pudo leer la caché", zap.String("key", key), zap.Error(err))
		}
		return out, false
	}

	if err := json.Unmarshal(data, &out); err != nil {
		logger.Get().Warn("valor corrupto en caché, se ignora", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, false
	}
	return out, true
}

func SaveJSON[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("no se pudo serializar %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
