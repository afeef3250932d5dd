// Package order define el ciclo de vida de un pedido: estados, transiciones
// permitidas y la proyección del timeline.
package order

import (
	"errors"
	"strings"
)

type Status string

const (
	Pending        Status = "pending"
	Confirmed      Status = "confirmed"
	Preparing      Status = "preparing"
	OutForDelivery Status = "out_for_delivery"
	Delivered      Status = "delivered"
	Cancelled      Status = "cancelled"
)

// Sequence es el orden canónico usado para calcular el progreso.
var Sequence = []Status{Pending, Confirmed, Preparing, OutForDelivery, Delivered}

// Errores de negocio exportados (los usan service y controller)
var (
	ErrUnknownStatus     = errors.New("estado de pedido desconocido")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("no se puede cambiar el estado de un pedido en estado final")
)

// Transiciones permitidas para el admin. cancelled solo desde pending o confirmed.
var transitions = map[Status][]Status{
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {OutForDelivery},
	OutForDelivery: {Delivered},
}

// Estados finales
var finalStates = map[Status]bool{
	Delivered: true,
	Cancelled: true,
}

// Parse normaliza el string recibido ("Out for delivery" -> out_for_delivery).
// No valida: un valor desconocido se devuelve normalizado igualmente.
func Parse(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return Status(s)
}

func (s Status) String() string { return string(s) }

// Known indica si el estado pertenece a la enumeración.
func (s Status) Known() bool {
	return s == Cancelled || s.Index() >= 0
}

// Index es la posición en Sequence, o -1 (cancelled y desconocidos).
func (s Status) Index() int {
	for i, v := range Sequence {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) IsFinal() bool { return finalStates[s] }

// AllowedTransitions devuelve una copia de los destinos válidos desde s.
func AllowedTransitions(from Status) []Status {
	return append([]Status(nil), transitions[from]...)
}

func CanTransition(from, to Status) bool {
	for _, v := range transitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// ValidateTransition se llama antes de tocar el backend.
func ValidateTransition(from, to string) error {
	f, t := Parse(from), Parse(to)
	if !f.Known() || !t.Known() {
		return ErrUnknownStatus
	}
	if f.IsFinal() {
		return ErrFinalState
	}
	if !CanTransition(f, t) {
		return ErrInvalidTransition
	}
	return nil
}

// Progress es el porcentaje de avance para badges y barras (0 si cancelado o desconocido).
func Progress(s Status) int {
	i := s.Index()
	if i < 0 {
		return 0
	}
	return (i + 1) * 100 / len(Sequence)
}

// Meta es la información de presentación de un estado.
type Meta struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

var metas = map[Status]Meta{
	Pending:        {Pending, "Order Placed", "We have received your order", "clock", "warning"},
	Confirmed:      {Confirmed, "Confirmed", "The store accepted your order", "check-circle", "info"},
	Preparing:      {Preparing, "Preparing", "Your items are being packed", "package", "primary"},
	OutForDelivery: {OutForDelivery, "Out for Delivery", "A rider is on the way", "truck", "primary"},
	Delivered:      {Delivered, "Delivered", "Order delivered", "home", "success"},
	Cancelled:      {Cancelled, "Cancelled", "This order was cancelled", "x-circle", "danger"},
}

// MetaOf nunca falla: un estado desconocido recibe metadata neutra.
func MetaOf(s Status) Meta {
	if m, ok := metas[s]; ok {
		return m
	}
	label := strings.ReplaceAll(string(s), "_", " ")
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return Meta{Status: s, Label: label, Icon: "help-circle", Color: "secondary"}
}

// StatusInfo describe un estado con sus transiciones para el back-office.
type StatusInfo struct {
	Meta
	Progress    int      `json:"progress"`
	Final       bool     `json:"final"`
	Transitions []Status `json:"transitions"`
}

func Catalog() []StatusInfo {
	all := append(append([]Status(nil), Sequence...), Cancelled)
	out := make([]StatusInfo, 0, len(all))
	for _, s := range all {
		tr := AllowedTransitions(s)
		if tr == nil {
			tr = []Status{}
		}
		out = append(out, StatusInfo{
			Meta:        MetaOf(s),
			Progress:    Progress(s),
			Final:       s.IsFinal(),
			Transitions: tr,
		})
	}
	return out
}
