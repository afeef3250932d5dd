package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickcart/internal/dto"
	"quickcart/internal/middleware"
	"quickcart/internal/service"
)

type CheckoutController struct {
	Service *service.CheckoutService
}

func NewCheckoutController(s *service.CheckoutService) *CheckoutController {
	return &CheckoutController{Service: s}
}

// POST /checkout/quote: público
func (ctl *CheckoutController) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := ctl.Service.Quote(req.Items, req.Discount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /checkout: invitado o logueado
func (ctl *CheckoutController) PlaceOrder(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o, err := ctl.Service.PlaceOrder(c.Request.Context(), req.ToService(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "order placed", "order": o})
}
