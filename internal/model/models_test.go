package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalLenient(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		valid bool
		want  string
	}{
		{"number", `12.5`, true, "12.5"},
		{"numeric string", `"99"`, true, "99"},
		{"null", `null`, false, "0"},
		{"garbage string", `"abc"`, false, "0"},
		{"bool", `true`, false, "0"},
		{"object", `{"a":1}`, false, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &n))
			assert.Equal(t, tc.valid, n.Valid)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(n.Decimal()))
		})
	}
}

func TestOrder_UnmarshalUpstreamShapes(t *testing.T) {
	raw := `{
		"id": 1042,
		"customer_name": "Asha",
		"delivery_address": {"house": "12B", "area": "MG Road", "city": "Pune", "state": "MH", "pincode": "411001"},
		"payment_method": {"type": "UPI"},
		"items": [{"product_id": 7, "name": "Milk", "price": "30", "quantity": 2}],
		"total": "oops",
		"status": "Pending",
		"created_at": "2024-03-01 10:15:00",
		"timeline": [{"status": "pending", "timestamp": 1709287800000, "notes": "created"}]
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, ID("1042"), o.ID)
	require.NotNil(t, o.DeliveryAddress.Address)
	assert.Equal(t, "12B, MG Road, Pune, MH - 411001", o.DeliveryAddress.String())
	assert.Equal(t, "UPI", o.PaymentMethod.Label)
	assert.False(t, o.Total.Valid)
	assert.True(t, decimal.NewFromInt(60).Equal(o.Items[0].LineTotal()))
	assert.Equal(t, 2024, o.PlacedAt().Year())
	require.Len(t, o.Timeline, 1)
	assert.Equal(t, int64(1709287800000), o.Timeline[0].Timestamp.UnixMilli())
}

func TestOrder_Clone(t *testing.T) {
	o := &Order{
		ID:              "1",
		Items:           []OrderItem{{Name: "Bread"}},
		DeliveryAddress: DeliveryAddress{Address: &Address{City: "Pune"}},
	}

	c := o.Clone()
	c.Items[0].Name = "Eggs"
	c.DeliveryAddress.Address.City = "Goa"

	assert.Equal(t, "Bread", o.Items[0].Name)
	assert.Equal(t, "Pune", o.DeliveryAddress.Address.City)
}

func TestPaymentMethod_Unwrap(t *testing.T) {
	var p PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`{"method":"Card","type":"online"}`), &p))
	assert.Equal(t, "Card", p.Label)

	require.NoError(t, json.Unmarshal([]byte(`"Cash on Delivery"`), &p))
	assert.Equal(t, "Cash on Delivery", p.Label)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	assert.True(t, (&User{Permissions: []string{"orders", "admin"}}).IsAdmin())
	assert.False(t, (&User{Role: "customer"}).IsAdmin())
}

func TestTimestamp_RoundTripKeepsSubSecond(t *testing.T) {
	first := NewTimestamp(time.Date(2024, 3, 1, 10, 0, 0, 250_000_000, time.UTC))
	second := NewTimestamp(time.Date(2024, 3, 1, 10, 0, 0, 750_000_000, time.UTC))

	b, err := json.Marshal([]Timestamp{first, second})
	require.NoError(t, err)

	var back []Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 2)
	assert.True(t, first.Equal(back[0].Time))
	assert.True(t, back[0].Before(back[1].Time))
}
