// dto.go
package dto

import (
	"quickcart/internal/model"
	"quickcart/internal/service"
)

// CheckoutRequest es el cuerpo de POST /checkout.
type CheckoutRequest struct {
	Phone           string                `json:"phone"`
	CustomerName    string                `json:"customer_name"`
	Email           string                `json:"email" binding:"omitempty,email"`
	Items           []model.OrderItem     `json:"items"`
	DeliveryAddress model.DeliveryAddress `json:"delivery_address"`
	PaymentMethod   string                `json:"payment_method"`
	Discount        model.Number          `json:"discount"`
}

func (r CheckoutRequest) ToService() service.CheckoutRequest {
	return service.CheckoutRequest{
		Phone:           r.Phone,
		CustomerName:    r.CustomerName,
		Email:           r.Email,
		Items:           r.Items,
		DeliveryAddress: r.DeliveryAddress,
		PaymentMethod:   r.PaymentMethod,
		Discount:        r.Discount,
	}
}

type QuoteRequest struct {
	Items    []model.OrderItem `json:"items"`
	Discount model.Number      `json:"discount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// AddressRequest es el formulario de dirección; la validación de formato
// la hace el servicio.
type AddressRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	House     string `json:"house"`
	Area      string `json:"area"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Type      string `json:"type"`
	IsDefault bool   `json:"is_default"`
}

func (r AddressRequest) ToModel() model.Address {
	return model.Address{
		Name:      r.Name,
		Phone:     r.Phone,
		House:     r.House,
		Area:      r.Area,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		Type:      r.Type,
		IsDefault: r.IsDefault,
	}
}

type ErrorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}
