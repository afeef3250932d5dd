package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickcart/internal/service"
)

type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(s *service.CatalogService) *CatalogController {
	return &CatalogController{Service: s}
}

func (ctl *CatalogController) Categories(c *gin.Context) {
	out, err := ctl.Service.Categories(c.Request.Context())
	respond(c, out, err)
}

// GET /catalog/products?category=
func (ctl *CatalogController) Products(c *gin.Context) {
	out, err := ctl.Service.Products(c.Request.Context(), c.Query("category"))
	respond(c, out, err)
}

func (ctl *CatalogController) Offers(c *gin.Context) {
	out, err := ctl.Service.Offers(c.Request.Context())
	respond(c, out, err)
}

func (ctl *CatalogController) Banners(c *gin.Context) {
	out, err := ctl.Service.Banners(c.Request.Context())
	respond(c, out, err)
}

func respond(c *gin.Context, out any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

var errInvalidBody = errors.New("request body must be a JSON object")

func rawBody(c *gin.Context) (json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) || len(body) == 0 || body[0] != '{' {
		badRequest(c, errInvalidBody)
		return nil, false
	}
	return body, true
}

// POST /admin/catalog/:resource
func (ctl *CatalogController) Create(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	out, err := ctl.Service.Create(c.Request.Context(), c.Param("resource"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "created", "data": out})
}

// PUT /admin/catalog/:resource/:id
func (ctl *CatalogController) Update(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	out, err := ctl.Service.Update(c.Request.Context(), c.Param("resource"), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated", "data": out})
}

// DELETE /admin/catalog/:resource/:id
func (ctl *CatalogController) Delete(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), c.Param("resource"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
