package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number es un importe opcional que viene del backend o del carrito.
// Acepta números, strings numéricos o null. Cualquier otro valor queda
// como ausente (Valid=false) y nunca produce error de decodificación.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

func NumberOf(v float64) Number {
	return Number{Value: decimal.NewFromFloat(v), Valid: true}
}

func NumberFromInt(v int64) Number {
	return Number{Value: decimal.NewFromInt(v), Valid: true}
}

func NumberFrom(d decimal.Decimal) Number {
	return Number{Value: d, Valid: true}
}

// Decimal devuelve el valor o cero si está ausente.
func (n Number) Decimal() decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Value
}

// Or devuelve el valor o el fallback si está ausente.
func (n Number) Or(fallback decimal.Decimal) decimal.Decimal {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}

	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	n.Value, n.Valid = d, true
	return nil
}
