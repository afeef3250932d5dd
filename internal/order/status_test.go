package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, OutForDelivery, Parse("Out for Delivery"))
	assert.Equal(t, OutForDelivery, Parse(" out-for-delivery "))
	assert.Equal(t, Pending, Parse("PENDING"))
	assert.Equal(t, Status("archived"), Parse("archived"))
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to string
		err      error
	}{
		{"pending", "confirmed", nil},
		{"pending", "cancelled", nil},
		{"confirmed", "preparing", nil},
		{"confirmed", "cancelled", nil},
		{"preparing", "out_for_delivery", nil},
		{"out_for_delivery", "delivered", nil},
		{"Pending", "Confirmed", nil},

		{"pending", "delivered", ErrInvalidTransition},
		{"pending", "pending", ErrInvalidTransition},
		{"preparing", "cancelled", ErrInvalidTransition},
		{"out_for_delivery", "cancelled", ErrInvalidTransition},
		{"confirmed", "pending", ErrInvalidTransition},

		{"delivered", "cancelled", ErrFinalState},
		{"cancelled", "pending", ErrFinalState},

		{"pending", "archived", ErrUnknownStatus},
		{"shipped", "delivered", ErrUnknownStatus},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 20, Progress(Pending))
	assert.Equal(t, 100, Progress(Delivered))
	assert.Equal(t, 0, Progress(Cancelled))
	assert.Equal(t, 0, Progress(Status("archived")))
}

func TestMetaOf_Unknown(t *testing.T) {
	m := MetaOf(Status("on_hold"))
	assert.Equal(t, "On hold", m.Label)
	assert.Equal(t, "secondary", m.Color)
}

func TestCatalog(t *testing.T) {
	infos := Catalog()
	assert.Len(t, infos, 6)

	byStatus := map[Status]StatusInfo{}
	for _, i := range infos {
		byStatus[i.Status] = i
	}
	assert.ElementsMatch(t, []Status{Confirmed, Cancelled}, byStatus[Pending].Transitions)
	assert.Empty(t, byStatus[Delivered].Transitions)
	assert.True(t, byStatus[Cancelled].Final)
}

func TestAllowedTransitions_ReturnsCopy(t *testing.T) {
	tr := AllowedTransitions(Pending)
	tr[0] = Delivered
	assert.True(t, CanTransition(Pending, Confirmed))
}
