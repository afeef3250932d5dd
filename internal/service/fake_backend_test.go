package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/invoice"
	"quickcart/internal/model"
	"quickcart/internal/pricing"
	"quickcart/internal/repository"
	"quickcart/internal/store"
)

// fakeBackend imita el backend REST de QuickCart en memoria.
type fakeBackend struct {
	mu       sync.Mutex
	down     bool
	nextID   int
	orders   map[string]model.Order
	order    []string
	prices   map[string]float64
	requests map[string]int
	catalog  map[string]string
	users    map[string]model.User

	// listStarted/listGate permiten frenar GET /orders a mitad de camino.
	listStarted chan struct{}
	listGate    chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   1000,
		orders:   map[string]model.Order{},
		prices:   map[string]float64{"p1": 100, "p2": 50},
		requests: map[string]int{},
		catalog:  map[string]string{},
		users:    map[string]model.User{},
	}
}

func (f *fakeBackend) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

// holdList hace que el próximo GET /orders avise en started y espere a gate.
func (f *fakeBackend) holdList() (started chan struct{}, gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStarted = make(chan struct{})
	f.listGate = make(chan struct{})
	return f.listStarted, f.listGate
}

func (f *fakeBackend) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[key]
}

func (f *fakeBackend) put(o model.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[o.ID.String()]; !ok {
		f.order = append(f.order, o.ID.String())
	}
	f.orders[o.ID.String()] = o
}

func (f *fakeBackend) get(id string) model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	key := r.Method + " " + path

	f.mu.Lock()
	f.requests[key]++
	down := f.down
	var started, gate chan struct{}
	if key == "GET /orders" {
		started, gate = f.listStarted, f.listGate
		f.listStarted, f.listGate = nil, nil
	}
	f.mu.Unlock()

	if down {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "maintenance"})
		return
	}

	switch {
	case key == "POST /orders/create":
		f.createOrder(w, r)
	case key == "GET /orders":
		snapshot := f.listOrders(r.URL.Query().Get("phone"))
		if gate != nil {
			started <- struct{}{}
			<-gate
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": snapshot})
	case key == "GET /orders/stats":
		writeJSON(w, http.StatusOK, map[string]any{"stats": map[string]any{"totalOrders": len(f.listOrders("")), "totalRevenue": "1000"}})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/orders/"):
		o, ok := f.lookup(strings.TrimPrefix(path, "/orders/"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": o})
	case r.Method == http.MethodPut && strings.HasSuffix(path, "/status"):
		var body struct{ Status string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.setStatus(w, strings.TrimSuffix(strings.TrimPrefix(path, "/orders/"), "/status"), body.Status)
	case r.Method == http.MethodPut && strings.HasSuffix(path, "/cancel"):
		f.setStatus(w, strings.TrimSuffix(strings.TrimPrefix(path, "/orders/"), "/cancel"), "cancelled")
	case key == "POST /auth/send-otp":
		writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
	case key == "POST /auth/verify-otp":
		var body struct{ Phone, Otp string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Otp != "1234" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid otp"})
			return
		}
		u := f.user("tok-" + body.Phone)
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + body.Phone, "user": u})
	case key == "GET /users/current":
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		u, ok := f.lookupUser(token)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	default:
		f.catalogRoute(w, r)
	}
}

func (f *fakeBackend) user(token string) model.User {
	u, _ := f.lookupUser(token)
	return u
}

func (f *fakeBackend) lookupUser(token string) (model.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[token]
	return u, ok
}

func (f *fakeBackend) addUser(token string, u model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[token] = u
}

func (f *fakeBackend) setCatalog(resource, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog[resource] = body
}

func (f *fakeBackend) createOrder(w http.ResponseWriter, r *http.Request) {
	var p api.CreateOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	f.mu.Lock()
	f.nextID++
	id := strconv.Itoa(f.nextID)
	subtotal := 0.0
	items := make([]model.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		price := f.prices[it.ProductID.String()]
		subtotal += price * float64(it.Quantity)
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Price:     model.NumberOf(price),
			Quantity:  model.NumberFromInt(it.Quantity),
		})
	}
	f.mu.Unlock()

	// Sin fees ni total: el servicio los completa con su cálculo.
	o := model.Order{
		ID:              model.ID(id),
		Phone:           p.Phone,
		Items:           items,
		Subtotal:        model.NumberOf(subtotal),
		Status:          "pending",
		DeliveryAddress: p.DeliveryAddress,
		CreatedAt:       model.NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
	f.put(o)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "order": o})
}

func (f *fakeBackend) listOrders(phone string) []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Order{}
	for _, id := range f.order {
		o := f.orders[id]
		if phone == "" || o.Phone == phone {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeBackend) lookup(id string) (model.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	return o, ok
}

func (f *fakeBackend) setStatus(w http.ResponseWriter, id, status string) {
	f.mu.Lock()
	o, ok := f.orders[id]
	if ok {
		o.Status = status
		f.orders[id] = o
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (f *fakeBackend) catalogRoute(w http.ResponseWriter, r *http.Request) {
	resource := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]
	if !api.IsCatalogResource(resource) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		body, ok := f.catalog[resource]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"`+resource+`":`+body+`}`)
	case http.MethodPost, http.MethodPut:
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	case http.MethodDelete:
		if strings.HasSuffix(r.URL.Path, "/missing") {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// recordingNotifier guarda las notificaciones publicadas.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) all() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

type fixture struct {
	backend  *fakeBackend
	client   *api.Client
	store    *store.MemoryStore
	history  *repository.MemoryHistoryRepository
	notifier *recordingNotifier
	orders   *OrderService
	checkout *CheckoutService
}

func newFixture(t *testing.T, offline bool) *fixture {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 2*time.Second, "svc-token")
	st := store.NewMemoryStore()
	history := repository.NewMemoryHistoryRepository()
	notifier := &recordingNotifier{}
	calc := pricing.NewCalculator(pricing.DefaultConfig())
	assembler := invoice.NewAssembler(invoice.Merchant{Name: "QuickCart"}, calc)

	orders := NewOrderService(client, st, history, notifier, calc, assembler, zap.NewNop())
	return &fixture{
		backend:  backend,
		client:   client,
		store:    st,
		history:  history,
		notifier: notifier,
		orders:   orders,
		checkout: NewCheckoutService(client, orders, notifier, calc, offline, zap.NewNop()),
	}
}
