package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID es el identificador opaco que asigna el backend (string o número).
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*id = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		*id = ID(string(b))
	}
	return nil
}

func (id ID) String() string { return string(id) }

// Formatos de fecha que usa el backend.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp tolera strings en varios formatos, epoch en segundos o
// milisegundos y valores nulos o inválidos (quedan en cero).
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = parseTime(b)
	return nil
}

func parseTime(b []byte) time.Time {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return time.Time{}
	}

	if raw[0] != '"' {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}
		}
		if n > 1e11 {
			return time.UnixMilli(n).UTC()
		}
		return time.Unix(n, 0).UTC()
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v
		}
	}
	return time.Time{}
}

// DeliveryAddress puede llegar como texto libre o como dirección estructurada.
type DeliveryAddress struct {
	Text    string
	Address *Address
}

func (d DeliveryAddress) IsZero() bool {
	return d.Address == nil && strings.TrimSpace(d.Text) == ""
}

func (d DeliveryAddress) String() string {
	if d.Address != nil {
		return d.Address.Format()
	}
	return strings.TrimSpace(d.Text)
}

func (d DeliveryAddress) MarshalJSON() ([]byte, error) {
	if d.Address != nil {
		return json.Marshal(d.Address)
	}
	return json.Marshal(d.Text)
}

func (d *DeliveryAddress) UnmarshalJSON(b []byte) error {
	*d = DeliveryAddress{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &d.Text)
	case '{':
		var a Address
		if err := json.Unmarshal(b, &a); err != nil {
			return nil
		}
		d.Address = &a
	}
	return nil
}

// PaymentMethod desenvuelve un string o un objeto {method|type}.
type PaymentMethod struct {
	Label string
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Label)
}

func (p *PaymentMethod) UnmarshalJSON(b []byte) error {
	*p = PaymentMethod{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &p.Label)
	case '{':
		var obj struct {
			Method string `json:"method"`
			Type   string `json:"type"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		p.Label = obj.Method
		if p.Label == "" {
			p.Label = obj.Type
		}
	}
	return nil
}
