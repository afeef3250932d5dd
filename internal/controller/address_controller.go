package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickcart/internal/dto"
	"quickcart/internal/middleware"
	"quickcart/internal/service"
)

type AddressController struct {
	Service *service.AddressService
}

func NewAddressController(s *service.AddressService) *AddressController {
	return &AddressController{Service: s}
}

func (ctl *AddressController) List(c *gin.Context) {
	list, cached, err := ctl.Service.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list, "cached": cached})
}

func (ctl *AddressController) Create(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := ctl.Service.Create(c.Request.Context(), middleware.ActorFrom(c), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "address saved", "address": a})
}

func (ctl *AddressController) Update(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := ctl.Service.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address updated", "address": a})
}

func (ctl *AddressController) Delete(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}
