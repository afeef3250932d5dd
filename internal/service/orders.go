package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/invoice"
	"quickcart/internal/model"
	"quickcart/internal/order"
	"quickcart/internal/pricing"
	"quickcart/internal/repository"
	"quickcart/internal/store"
)

// Interfaz que debe implementar repository
type HistoryRepository interface {
	Init(ctx context.Context, orderID, phone string, first model.StatusRecord) error
	FindByOrderID(ctx context.Context, orderID string) (*model.StatusHistory, error)
	Append(ctx context.Context, orderID string, record model.StatusRecord) error
}

// OrderView es el pedido con los importes ya resueltos y la información
// de estado que necesitan las vistas.
type OrderView struct {
	model.Order
	Totals      pricing.Breakdown `json:"totals"`
	StatusInfo  order.Meta        `json:"statusInfo"`
	Progress    int               `json:"progress"`
	Transitions []order.Status    `json:"transitions"`
	Cached      bool              `json:"cached,omitempty"`
}

type OrderList struct {
	Orders []OrderView `json:"orders"`
	Cached bool        `json:"cached"`
}

type OrderService struct {
	api      *api.Client
	store    store.Store
	history  HistoryRepository
	notifier Notifier
	calc     *pricing.Calculator
	invoices *invoice.Assembler
	log      *zap.Logger

	// mu serializa las escrituras de la caché de pedidos. gen se incrementa
	// con cada mutación: un polling que empezó antes no pisa su resultado.
	mu  sync.Mutex
	gen uint64
}

func NewOrderService(
	client *api.Client,
	st store.Store,
	history HistoryRepository,
	notifier Notifier,
	calc *pricing.Calculator,
	invoices *invoice.Assembler,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		api:      client,
		store:    st,
		history:  history,
		notifier: notifier,
		calc:     calc,
		invoices: invoices,
		log:      log,
	}
}

func (s *OrderService) View(o model.Order) OrderView {
	st := order.Parse(o.Status)
	transitions := order.AllowedTransitions(st)
	if transitions == nil {
		transitions = []order.Status{}
	}
	return OrderView{
		Order:       o,
		Totals:      s.calc.Calculate(&o, nil),
		StatusInfo:  order.MetaOf(st),
		Progress:    order.Progress(st),
		Transitions: transitions,
	}
}

func (s *OrderService) list(orders []model.Order, cached bool) *OrderList {
	out := &OrderList{Orders: make([]OrderView, 0, len(orders)), Cached: cached}
	for _, o := range orders {
		out.Orders = append(out.Orders, s.View(o))
	}
	return out
}

// ListForCustomer devuelve los pedidos de un teléfono. Sin backend usa la
// última copia conocida.
func (s *OrderService) ListForCustomer(ctx context.Context, phone string) (*OrderList, error) {
	p := normalizePhone(phone)
	if p == "" {
		return nil, ErrPhoneRequired
	}
	key := store.Scoped(store.KeyUserOrders, p)

	gen := s.generation()
	orders, err := s.api.ListOrders(ctx, p)
	if err != nil {
		if !api.IsUnavailable(err) {
			return nil, err
		}
		s.log.Warn("backend no disponible, usando pedidos en caché", zap.String("phone", p), zap.Error(err))
		cached, _ := store.LoadJSON[[]model.Order](ctx, s.store, key)
		return s.list(sortByDate(cached), true), nil
	}

	s.storeIfCurrent(ctx, key, gen, orders)
	return s.list(sortByDate(orders), false), nil
}

// ListAll es el listado del back-office, opcionalmente filtrado por estado.
func (s *OrderService) ListAll(ctx context.Context, status string) (*OrderList, error) {
	orders, cached, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	if status != "" && status != "all" {
		filter := order.Parse(status)
		if !filter.Known() {
			return nil, fmt.Errorf("%w: %q", order.ErrUnknownStatus, status)
		}
		orders = slices.DeleteFunc(orders, func(o model.Order) bool {
			return order.Parse(o.Status) != filter
		})
	}
	return s.list(sortByDate(orders), cached), nil
}

func (s *OrderService) all(ctx context.Context) ([]model.Order, bool, error) {
	gen := s.generation()
	orders, err := s.api.ListOrders(ctx, "")
	if err != nil {
		if !api.IsUnavailable(err) {
			return nil, false, err
		}
		s.log.Warn("backend no disponible, usando listado de pedidos en caché", zap.Error(err))
		cached, _ := store.LoadJSON[[]model.Order](ctx, s.store, store.KeyAllOrders)
		return cached, true, nil
	}
	s.storeIfCurrent(ctx, store.KeyAllOrders, gen, orders)
	return orders, false, nil
}

// Get devuelve un pedido. Un cliente solo ve los suyos.
func (s *OrderService) Get(ctx context.Context, id string, actor Actor) (*OrderView, error) {
	o, cached, err := s.load(ctx, id, actor.Phone)
	if err != nil {
		return nil, err
	}
	if !s.canView(o, actor) {
		return nil, ErrForbidden
	}
	v := s.View(*o)
	v.Cached = cached
	return &v, nil
}

func (s *OrderService) canView(o *model.Order, actor Actor) bool {
	return actor.Admin || samePhone(o.Phone, actor.Phone)
}

func (s *OrderService) load(ctx context.Context, id, phone string) (*model.Order, bool, error) {
	o, err := s.api.GetOrder(ctx, id)
	if err == nil {
		return o, false, nil
	}
	if !api.IsUnavailable(err) {
		return nil, false, upstream(err, ErrOrderNotFound)
	}
	if cached := s.findCached(ctx, id, phone); cached != nil {
		s.log.Warn("backend no disponible, usando pedido en caché", zap.String("orderId", id))
		return cached, true, nil
	}
	return nil, false, upstream(err, nil)
}

func (s *OrderService) findCached(ctx context.Context, id, phone string) *model.Order {
	for _, key := range s.cacheKeys(phone) {
		list, _ := store.LoadJSON[[]model.Order](ctx, s.store, key)
		for i := range list {
			if list[i].ID.String() == id {
				return &list[i]
			}
		}
	}
	return nil
}

// Timeline usa el timeline del backend y, si no lo trae, el historial local.
func (s *OrderService) Timeline(ctx context.Context, id string, actor Actor) (*order.Timeline, error) {
	v, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	records := v.Timeline
	if len(records) == 0 && s.history != nil {
		h, err := s.history.FindByOrderID(ctx, id)
		switch {
		case err == nil:
			records = h.History
		case !errors.Is(err, repository.ErrNotFound):
			s.log.Warn("no se pudo leer el historial", zap.String("orderId", id), zap.Error(err))
		}
	}

	tl := order.ProjectTimeline(v.Status, records)
	return &tl, nil
}

func (s *OrderService) Invoice(ctx context.Context, id string, actor Actor) (*invoice.Document, error) {
	o, _, err := s.load(ctx, id, actor.Phone)
	if err != nil {
		return nil, err
	}
	if !s.canView(o, actor) {
		return nil, ErrForbidden
	}
	return s.invoices.Assemble(o)
}

// UpdateStatus es la acción del admin. La transición se valida antes de
// llamar al backend y el resultado, bueno o malo, siempre se notifica.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status, notes string, actor Actor) (*OrderView, error) {
	return s.transition(ctx, id, order.Parse(status), notes, actor, model.NotifyStatusUpdated)
}

// Cancel lo puede pedir el dueño del pedido o un admin.
func (s *OrderService) Cancel(ctx context.Context, id string, actor Actor) (*OrderView, error) {
	return s.transition(ctx, id, order.Cancelled, "", actor, model.NotifyOrderCanceled)
}

func (s *OrderService) transition(ctx context.Context, id string, to order.Status, notes string, actor Actor, kind string) (*OrderView, error) {
	updated, err := s.applyTransition(ctx, id, to, notes, actor, kind)
	publish(ctx, s.log, s.notifier, newNotification(kind, id, to.String(), actor, err))
	if err != nil {
		s.log.Warn("cambio de estado rechazado",
			zap.String("orderId", id),
			zap.String("to", to.String()),
			zap.String("actor", actor.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("estado de pedido actualizado", zap.String("orderId", id), zap.String("status", to.String()))
	v := s.View(*updated)
	return &v, nil
}

func (s *OrderService) applyTransition(ctx context.Context, id string, to order.Status, notes string, actor Actor, kind string) (*model.Order, error) {
	current, _, err := s.load(ctx, id, actor.Phone)
	if err != nil {
		return nil, err
	}

	// Ni es admin, ni es el dueño cancelando su pedido
	if !actor.Admin && (kind != model.NotifyOrderCanceled || !samePhone(current.Phone, actor.Phone)) {
		return nil, ErrForbidden
	}

	if err := order.ValidateTransition(current.Status, to.String()); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", err, order.Parse(current.Status), to)
	}

	var resp *model.Order
	if kind == model.NotifyOrderCanceled {
		resp, err = s.api.CancelOrder(ctx, id)
	} else {
		resp, err = s.api.UpdateOrderStatus(ctx, id, to.String(), notes)
	}
	if err != nil {
		return nil, upstream(err, ErrOrderNotFound)
	}

	// El backend puede responder solo con un mensaje o con el pedido parcial.
	updated := current.Clone()
	if resp != nil && len(resp.Items) > 0 {
		updated = resp.Clone()
		if updated.Phone == "" {
			updated.Phone = current.Phone
		}
	}
	updated.Status = to.String()

	rec := model.StatusRecord{
		Status:    to.String(),
		Notes:     notes,
		Actor:     actor.Name(),
		Timestamp: time.Now().UTC(),
	}
	if len(updated.Timeline) > 0 {
		updated.Timeline = append(updated.Timeline, rec)
	}

	s.appendHistory(ctx, id, rec)
	s.upsertCached(ctx, updated, true)
	return updated, nil
}

// Stats devuelve los agregados del backend o, sin backend, los últimos
// conocidos; si no hay, los calcula sobre el listado en caché.
func (s *OrderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	stats, err := s.api.OrderStats(ctx)
	if err == nil {
		if err := store.SaveJSON(ctx, s.store, store.KeyOrderStats, stats); err != nil {
			s.log.Warn("no se pudieron guardar las estadísticas", zap.Error(err))
		}
		return stats, nil
	}
	if !api.IsUnavailable(err) {
		return nil, err
	}

	if cached, ok := store.LoadJSON[model.OrderStats](ctx, s.store, store.KeyOrderStats); ok {
		cached.Cached = true
		return &cached, nil
	}
	orders, _ := store.LoadJSON[[]model.Order](ctx, s.store, store.KeyAllOrders)
	computed := s.computeStats(orders)
	computed.Cached = true
	return &computed, nil
}

func (s *OrderService) computeStats(orders []model.Order) model.OrderStats {
	var out model.OrderStats
	revenue := decimal.Zero

	for i := range orders {
		out.TotalOrders++
		switch order.Parse(orders[i].Status) {
		case order.Pending:
			out.PendingOrders++
		case order.Delivered:
			out.DeliveredOrders++
		case order.Cancelled:
			out.CancelledOrders++
			continue
		}
		revenue = revenue.Add(s.calc.Calculate(&orders[i], nil).Total)
	}
	out.TotalRevenue = model.NumberFrom(revenue)
	return out
}

// Refresh es la tarea de polling del listado del back-office.
func (s *OrderService) Refresh(ctx context.Context) error {
	gen := s.generation()
	orders, err := s.api.ListOrders(ctx, "")
	if err != nil {
		return fmt.Errorf("refrescando pedidos: %w", err)
	}
	if !s.storeIfCurrent(ctx, store.KeyAllOrders, gen, orders) {
		s.log.Debug("polling descartado: hubo una mutación mientras se consultaba")
	}

	stats, err := s.api.OrderStats(ctx)
	if err != nil {
		s.log.Debug("no se pudieron refrescar las estadísticas", zap.Error(err))
		return nil
	}
	if err := store.SaveJSON(ctx, s.store, store.KeyOrderStats, stats); err != nil {
		s.log.Warn("no se pudieron guardar las estadísticas", zap.Error(err))
	}
	return nil
}

// ApplyPlaced procesa el evento de pedido creado en el backend.
func (s *OrderService) ApplyPlaced(ctx context.Context, o model.Order) error {
	if o.ID == "" {
		return errors.New("evento de pedido sin id")
	}
	if o.Status == "" {
		o.Status = order.Pending.String()
	}
	s.registerPlaced(ctx, &o, "backend", false)
	return nil
}

// registerPlaced guarda el primer registro del historial y agrega el
// pedido a la caché. Con replace=false no pisa una copia más completa.
func (s *OrderService) registerPlaced(ctx context.Context, o *model.Order, actor string, replace bool) {
	at := o.PlacedAt()
	if at.IsZero() {
		at = time.Now().UTC()
	}
	first := model.StatusRecord{
		Status:    order.Parse(o.Status).String(),
		Notes:     "Order placed",
		Actor:     actor,
		Timestamp: at,
	}
	if s.history != nil {
		if err := s.history.Init(ctx, o.ID.String(), normalizePhone(o.Phone), first); err != nil {
			s.log.Warn("no se pudo inicializar el historial", zap.String("orderId", o.ID.String()), zap.Error(err))
		}
	}
	s.upsertCached(ctx, o, replace)
}

// ApplyRemoteStatus procesa un cambio de estado hecho en el backend.
// Ignora el evento si el historial ya tiene ese estado como actual (lo
// generó este mismo servicio).
func (s *OrderService) ApplyRemoteStatus(ctx context.Context, orderID, status, notes, actor string) error {
	st := order.Parse(status)
	if !st.Known() {
		return fmt.Errorf("%w: %q", order.ErrUnknownStatus, status)
	}

	var phone string
	if s.history != nil {
		h, err := s.history.FindByOrderID(ctx, orderID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if h != nil {
			phone = h.Phone
		}
		if h == nil || order.Parse(h.Status) != st {
			if actor == "" {
				actor = "backend"
			}
			rec := model.StatusRecord{Status: st.String(), Notes: notes, Actor: actor, Timestamp: time.Now().UTC()}
			if err := s.history.Append(ctx, orderID, rec); err != nil {
				return err
			}
		}
	}

	s.patchCached(ctx, orderID, phone, func(o *model.Order) { o.Status = st.String() })
	return nil
}

func (s *OrderService) appendHistory(ctx context.Context, id string, rec model.StatusRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(ctx, id, rec); err != nil {
		s.log.Warn("no se pudo guardar el historial", zap.String("orderId", id), zap.Error(err))
	}
}

func (s *OrderService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// storeIfCurrent guarda el resultado de una consulta solo si no hubo
// mutaciones desde que empezó (gen sin cambios).
func (s *OrderService) storeIfCurrent(ctx context.Context, key string, gen uint64, orders []model.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return false
	}
	if err := store.SaveJSON(ctx, s.store, key, orders); err != nil {
		s.log.Warn("no se pudo guardar la caché de pedidos", zap.String("key", key), zap.Error(err))
	}
	return true
}

func (s *OrderService) cacheKeys(phone string) []string {
	keys := make([]string, 0, 2)
	if p := normalizePhone(phone); p != "" {
		keys = append(keys, store.Scoped(store.KeyUserOrders, p))
	}
	return append(keys, store.KeyAllOrders)
}

func (s *OrderService) upsertCached(ctx context.Context, o *model.Order, replace bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	for _, key := range s.cacheKeys(o.Phone) {
		list, _ := store.LoadJSON[[]model.Order](ctx, s.store, key)
		list = upsertOrder(list, *o, replace)
		if err := store.SaveJSON(ctx, s.store, key, list); err != nil {
			s.log.Warn("no se pudo guardar la caché de pedidos", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *OrderService) patchCached(ctx context.Context, id, phone string, patch func(*model.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	for _, key := range s.cacheKeys(phone) {
		list, ok := store.LoadJSON[[]model.Order](ctx, s.store, key)
		if !ok {
			continue
		}
		i := slices.IndexFunc(list, func(o model.Order) bool { return o.ID.String() == id })
		if i < 0 {
			continue
		}
		patch(&list[i])
		if err := store.SaveJSON(ctx, s.store, key, list); err != nil {
			s.log.Warn("no se pudo guardar la caché de pedidos", zap.String("key", key), zap.Error(err))
		}
	}
}

func upsertOrder(list []model.Order, o model.Order, replace bool) []model.Order {
	for i := range list {
		if list[i].ID == o.ID {
			if replace {
				list[i] = o
			}
			return list
		}
	}
	return append([]model.Order{o}, list...)
}

func ordersOf(l *OrderList) []model.Order {
	out := make([]model.Order, 0, len(l.Orders))
	for _, v := range l.Orders {
		out = append(out, v.Order)
	}
	return out
}

// sortByDate ordena del más reciente al más antiguo.
func sortByDate(orders []model.Order) []model.Order {
	slices.SortStableFunc(orders, func(a, b model.Order) int {
		return b.PlacedAt().Compare(a.PlacedAt())
	})
	return orders
}
