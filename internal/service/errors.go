package service

import (
	"errors"
	"strings"

	"quickcart/internal/api"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden          = errors.New("forbidden")
	ErrOrderNotFound      = errors.New("pedido no encontrado")
	ErrAddressNotFound    = errors.New("dirección no encontrada")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrAddressRequired    = errors.New("falta la dirección de entrega")
	ErrPaymentRequired    = errors.New("falta el método de pago")
	ErrPhoneRequired      = errors.New("falta el teléfono del cliente")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrUnknownResource    = errors.New("recurso de catálogo desconocido")
	ErrBackendUnavailable = errors.New("el backend de QuickCart no está disponible")
	ErrUnauthorized       = errors.New("token inválido o expirado")
	ErrUserDisabled       = errors.New("usuario deshabilitado")
	ErrNotFound           = errors.New("recurso no encontrado")
)

// upstream traduce los errores del cliente REST: red/5xx pasan a ser
// ErrBackendUnavailable y un 404 pasa a ser notFound.
func upstream(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case api.IsUnavailable(err):
		return errors.Join(ErrBackendUnavailable, err)
	case notFound != nil && errors.Is(err, api.ErrNotFound):
		return notFound
	}
	return err
}

// Actor es quien ejecuta la acción. Un invitado no tiene Phone pero sí
// Session (el id de sesión de invitado).
type Actor struct {
	ID      string
	Phone   string
	Admin   bool
	Session string
}

func (a Actor) IsGuest() bool { return normalizePhone(a.Phone) == "" }

func (a Actor) Name() string {
	if a.ID != "" {
		return a.ID
	}
	if a.Phone != "" {
		return a.Phone
	}
	return "system"
}

// normalizePhone deja solo los 10 dígitos del móvil (sin +91 ni separadores).
func normalizePhone(p string) string {
	var b strings.Builder
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	return digits
}

func samePhone(a, b string) bool {
	na, nb := normalizePhone(a), normalizePhone(b)
	return na != "" && na == nb
}
