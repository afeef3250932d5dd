package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/model"
	"quickcart/internal/store"
)

// Listing es una colección del catálogo. Sample indica que son datos de
// ejemplo porque no había backend ni caché.
type Listing[T any] struct {
	Items  []T  `json:"items"`
	Cached bool `json:"cached"`
	Sample bool `json:"sample,omitempty"`
}

type CatalogService struct {
	api   *api.Client
	store store.Store
	log   *zap.Logger

	// datos de ejemplo solo fuera de producción
	samples bool
}

func NewCatalogService(client *api.Client, st store.Store, samples bool, log *zap.Logger) *CatalogService {
	return &CatalogService{api: client, store: st, samples: samples, log: log}
}

func (s *CatalogService) Categories(ctx context.Context) (*Listing[model.Category], error) {
	return loadCatalog(ctx, s, api.ResourceCategories, store.KeyCategories, sampleCategories)
}

// Products filtra por categoría si categoryID no está vacío.
func (s *CatalogService) Products(ctx context.Context, categoryID string) (*Listing[model.Product], error) {
	out, err := loadCatalog(ctx, s, api.ResourceProducts, store.KeyProducts, sampleProducts)
	if err != nil || categoryID == "" {
		return out, err
	}
	out.Items = slices.DeleteFunc(out.Items, func(p model.Product) bool {
		return p.CategoryID.String() != categoryID
	})
	return out, nil
}

func (s *CatalogService) Offers(ctx context.Context) (*Listing[model.Offer], error) {
	return loadCatalog(ctx, s, api.ResourceOffers, store.KeyOffers, sampleOffers)
}

func (s *CatalogService) Banners(ctx context.Context) (*Listing[model.Banner], error) {
	return loadCatalog(ctx, s, api.ResourceBanners, store.KeyBanners, sampleBanners)
}

func loadCatalog[T model.Positioned](ctx context.Context, s *CatalogService, resource, key string, samples []T) (*Listing[T], error) {
	out := &Listing[T]{}

	items, err := api.ListResource[T](ctx, s.api, resource)
	switch {
	case err == nil:
		if err := store.SaveJSON(ctx, s.store, key, items); err != nil {
			s.log.Warn("no se pudo guardar la caché del catálogo", zap.String("key", key), zap.Error(err))
		}
	case api.IsUnavailable(err):
		s.log.Warn("backend no disponible, usando catálogo en caché", zap.String("resource", resource), zap.Error(err))
		out.Cached = true
		cached, ok := store.LoadJSON[[]T](ctx, s.store, key)
		switch {
		case ok:
			items = cached
		case s.samples:
			items = slices.Clone(samples)
			out.Sample = true
		}
	default:
		return nil, err
	}

	out.Items = activeSorted(items)
	return out, nil
}

// activeSorted descarta los inactivos y ordena por posición.
func activeSorted[T model.Positioned](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.IsActive() {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int { return a.SortKey() - b.SortKey() })
	return out
}

// Create, Update y Delete son las acciones del back-office. Tras cada una
// se recarga la colección para que la caché quede al día.
func (s *CatalogService) Create(ctx context.Context, resource string, body json.RawMessage) (json.RawMessage, error) {
	if !api.IsCatalogResource(resource) {
		return nil, ErrUnknownResource
	}
	out, err := api.CreateResource(ctx, s.api, resource, body)
	if err != nil {
		return nil, upstream(err, nil)
	}
	s.reload(ctx, resource)
	return out, nil
}

func (s *CatalogService) Update(ctx context.Context, resource, id string, body json.RawMessage) (json.RawMessage, error) {
	if !api.IsCatalogResource(resource) {
		return nil, ErrUnknownResource
	}
	out, err := api.UpdateResource(ctx, s.api, resource, id, body)
	if err != nil {
		return nil, upstream(err, ErrNotFound)
	}
	s.reload(ctx, resource)
	return out, nil
}

func (s *CatalogService) Delete(ctx context.Context, resource, id string) error {
	if !api.IsCatalogResource(resource) {
		return ErrUnknownResource
	}
	if err := api.DeleteResource(ctx, s.api, resource, id); err != nil {
		return upstream(err, ErrNotFound)
	}
	s.reload(ctx, resource)
	return nil
}

func (s *CatalogService) reload(ctx context.Context, resource string) {
	if _, err := s.refresh(ctx, resource); err != nil {
		s.log.Warn("no se pudo recargar el catálogo", zap.String("resource", resource), zap.Error(err))
	}
}

// refresh vuelve a pedir la colección; cached=true si el backend no respondió.
func (s *CatalogService) refresh(ctx context.Context, resource string) (cached bool, err error) {
	switch resource {
	case api.ResourceCategories:
		l, err := s.Categories(ctx)
		return err == nil && l.Cached, err
	case api.ResourceProducts:
		l, err := s.Products(ctx, "")
		return err == nil && l.Cached, err
	case api.ResourceOffers:
		l, err := s.Offers(ctx)
		return err == nil && l.Cached, err
	case api.ResourceBanners:
		l, err := s.Banners(ctx)
		return err == nil && l.Cached, err
	}
	return false, ErrUnknownResource
}

// Refresh es la tarea de polling del catálogo.
func (s *CatalogService) Refresh(ctx context.Context) error {
	var errs []error
	for _, r := range []string{api.ResourceCategories, api.ResourceProducts, api.ResourceOffers, api.ResourceBanners} {
		cached, err := s.refresh(ctx, r)
		if err == nil && cached {
			err = ErrBackendUnavailable
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r, err))
		}
	}
	return errors.Join(errs...)
}
