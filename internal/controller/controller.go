package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quickcart/internal/dto"
	"quickcart/internal/invoice"
	"quickcart/internal/middleware"
	"quickcart/internal/order"
	"quickcart/internal/service"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// GET /orders/mine
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	orders, err := ctl.Service.ListForCustomer(c.Request.Context(), actor.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:orderId
func (ctl *OrderController) GetOrder(c *gin.Context) {
	o, err := ctl.Service.Get(c.Request.Context(), c.Param("orderId"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// GET /orders/:orderId/timeline
func (ctl *OrderController) GetTimeline(c *gin.Context) {
	tl, err := ctl.Service.Timeline(c.Request.Context(), c.Param("orderId"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tl)
}

// GET /orders/:orderId/invoice: PDF, o el modelo con ?format=json
func (ctl *OrderController) GetInvoice(c *gin.Context) {
	orderID := c.Param("orderId")
	doc, err := ctl.Service.Invoice(c.Request.Context(), orderID, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, doc)
		return
	}

	var buf bytes.Buffer
	if err := invoice.RenderPDF(&buf, doc); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", orderID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// PUT /orders/:orderId/cancel: dueño o admin
func (ctl *OrderController) CancelOrder(c *gin.Context) {
	o, err := ctl.Service.Cancel(c.Request.Context(), c.Param("orderId"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled", "order": o})
}

// GET /admin/orders?status=
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// PUT /admin/orders/:orderId/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o, err := ctl.Service.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.Status, req.Notes, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "order": o})
}

// GET /admin/orders/stats
func (ctl *OrderController) GetStats(c *gin.Context) {
	stats, err := ctl.Service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /admin/orders/export?status=
func (ctl *OrderController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctl.Service.ExportXLSX(c.Request.Context(), &buf, c.Query("status")); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /admin/statuses: tabla de transiciones y metadatos para los menús
func (ctl *OrderController) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statuses": order.Catalog()})
}
