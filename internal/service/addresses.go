package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/model"
	"quickcart/internal/store"
)

// AddressService maneja las direcciones: en el backend para usuarios
// logueados y solo en la caché local para invitados.
type AddressService struct {
	api   *api.Client
	store store.Store
	log   *zap.Logger
}

func NewAddressService(client *api.Client, st store.Store, log *zap.Logger) *AddressService {
	return &AddressService{api: client, store: st, log: log}
}

func (s *AddressService) key(actor Actor) (string, error) {
	if p := normalizePhone(actor.Phone); p != "" {
		return store.Scoped(store.KeyAddresses, p), nil
	}
	if actor.Session != "" {
		return store.Scoped(store.KeyAddresses, "guest:"+actor.Session), nil
	}
	return "", ErrPhoneRequired
}

// List devuelve las direcciones y si vienen de la caché.
func (s *AddressService) List(ctx context.Context, actor Actor) ([]model.Address, bool, error) {
	key, err := s.key(actor)
	if err != nil {
		return nil, false, err
	}

	if actor.IsGuest() {
		list, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
		return nonNil(list), false, nil
	}

	list, err := s.api.ListAddresses(ctx, normalizePhone(actor.Phone))
	if err != nil {
		if !api.IsUnavailable(err) {
			return nil, false, err
		}
		s.log.Warn("backend no disponible, usando direcciones en caché", zap.Error(err))
		cached, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
		return nonNil(cached), true, nil
	}

	s.save(ctx, key, list)
	return list, false, nil
}

func (s *AddressService) Create(ctx context.Context, actor Actor, a model.Address) (*model.Address, error) {
	key, err := s.key(actor)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(&a); err != nil {
		return nil, err
	}

	if actor.IsGuest() {
		a.ID = model.ID(uuid.NewString())
		list, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
		if len(list) == 0 {
			a.IsDefault = true
		}
		list = setDefault(append(list, a), a)
		s.save(ctx, key, list)
		return &a, nil
	}

	a.UserPhone = normalizePhone(actor.Phone)
	created, err := s.api.CreateAddress(ctx, a)
	if err != nil {
		return nil, upstream(err, nil)
	}
	s.mutateCache(ctx, key, func(list []model.Address) []model.Address {
		return setDefault(append(list, *created), *created)
	})
	return created, nil
}

func (s *AddressService) Update(ctx context.Context, actor Actor, id string, a model.Address) (*model.Address, error) {
	key, err := s.key(actor)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(&a); err != nil {
		return nil, err
	}
	a.ID = model.ID(id)

	if actor.IsGuest() {
		list, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
		i := indexAddress(list, id)
		if i < 0 {
			return nil, ErrAddressNotFound
		}
		list[i] = a
		s.save(ctx, key, setDefault(list, a))
		return &a, nil
	}

	a.UserPhone = normalizePhone(actor.Phone)
	updated, err := s.api.UpdateAddress(ctx, id, a)
	if err != nil {
		return nil, upstream(err, ErrAddressNotFound)
	}
	s.mutateCache(ctx, key, func(list []model.Address) []model.Address {
		if i := indexAddress(list, id); i >= 0 {
			list[i] = *updated
		} else {
			list = append(list, *updated)
		}
		return setDefault(list, *updated)
	})
	return updated, nil
}

func (s *AddressService) Delete(ctx context.Context, actor Actor, id string) error {
	key, err := s.key(actor)
	if err != nil {
		return err
	}

	if actor.IsGuest() {
		list, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
		i := indexAddress(list, id)
		if i < 0 {
			return ErrAddressNotFound
		}
		s.save(ctx, key, slices.Delete(list, i, i+1))
		return nil
	}

	if err := s.api.DeleteAddress(ctx, id, normalizePhone(actor.Phone)); err != nil {
		return upstream(err, ErrAddressNotFound)
	}
	s.mutateCache(ctx, key, func(list []model.Address) []model.Address {
		if i := indexAddress(list, id); i >= 0 {
			return slices.Delete(list, i, i+1)
		}
		return list
	})
	return nil
}

func (s *AddressService) mutateCache(ctx context.Context, key string, fn func([]model.Address) []model.Address) {
	list, _ := store.LoadJSON[[]model.Address](ctx, s.store, key)
	s.save(ctx, key, fn(list))
}

func (s *AddressService) save(ctx context.Context, key string, list []model.Address) {
	if err := store.SaveJSON(ctx, s.store, key, nonNil(list)); err != nil {
		s.log.Warn("no se pudo guardar la caché de direcciones", zap.String("key", key), zap.Error(err))
	}
}

func indexAddress(list []model.Address, id string) int {
	return slices.IndexFunc(list, func(a model.Address) bool { return a.ID.String() == id })
}

// setDefault deja una sola dirección por defecto si la nueva lo es.
func setDefault(list []model.Address, chosen model.Address) []model.Address {
	if !chosen.IsDefault {
		return list
	}
	for i := range list {
		list[i].IsDefault = list[i].ID == chosen.ID
	}
	return list
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
