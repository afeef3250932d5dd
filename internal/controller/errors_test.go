package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"quickcart/internal/api"
	"quickcart/internal/order"
	"quickcart/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.ValidationErrors{{Field: "pincode", Message: "must be a valid 6-digit pincode"}}, http.StatusUnprocessableEntity},
		{"unavailable", errors.Join(service.ErrBackendUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"disabled", service.ErrUserDisabled, http.StatusForbidden},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
		{"order not found", service.ErrOrderNotFound, http.StatusNotFound},
		{"upstream not found", api.ErrNotFound, http.StatusNotFound},
		{"transition", fmt.Errorf("%w: pending -> delivered", order.ErrInvalidTransition), http.StatusConflict},
		{"final", order.ErrFinalState, http.StatusConflict},
		{"unknown status", order.ErrUnknownStatus, http.StatusBadRequest},
		{"empty cart", service.ErrEmptyCart, http.StatusBadRequest},
		{"upstream business", &api.Error{StatusCode: http.StatusBadRequest, Message: "invalid"}, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("InternalHidesDetail", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, errors.New("mongo: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	})

	t.Run("ValidationFields", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, service.ValidationErrors{{Field: "phone", Message: "is required"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"error":"validation failed","fields":[{"field":"phone","message":"is required"}]}`, w.Body.String())
	})
}
