package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickcart/internal/api"
	"quickcart/internal/dto"
	"quickcart/internal/invoice"
	"quickcart/internal/order"
	"quickcart/internal/service"
)

// statusFor traduce los errores de negocio a códigos HTTP.
func statusFor(err error) int {
	var verrs service.ValidationErrors
	var apiErr *api.Error

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUserDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrFinalState):
		return http.StatusConflict
	case errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrAddressRequired),
		errors.Is(err, service.ErrPaymentRequired),
		errors.Is(err, service.ErrPhoneRequired),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrUnknownResource),
		errors.Is(err, invoice.ErrNoItems):
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	resp := dto.ErrorResponse{Error: err.Error()}
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp.Error = "validation failed"
		resp.Fields = verrs
	case status == http.StatusServiceUnavailable:
		resp.Error = service.ErrBackendUnavailable.Error()
	case status == http.StatusInternalServerError:
		resp.Error = "internal error"
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}
