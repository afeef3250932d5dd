package service

import (
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"quickcart/internal/order"
)

var exportHeaders = []string{
	"Order ID", "Date", "Customer", "Phone", "Status", "Payment Method", "Payment Status",
	"Items", "Subtotal", "Delivery Fee", "Handling Fee", "Discount", "Total",
}

// ExportXLSX escribe el listado del back-office (con el mismo filtro que
// ListAll) en una planilla.
func (s *OrderService) ExportXLSX(ctx context.Context, w io.Writer, status string) error {
	list, err := s.ListAll(ctx, status)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, v := range list.Orders {
		row := sheet.AddRow()
		row.AddCell().SetString(v.ID.String())
		date := ""
		if at := v.PlacedAt(); !at.IsZero() {
			date = at.Format("2006-01-02 15:04")
		}
		row.AddCell().SetString(date)
		row.AddCell().SetString(v.CustomerName)
		row.AddCell().SetString(v.Phone)
		row.AddCell().SetString(v.StatusInfo.Label)
		row.AddCell().SetString(v.PaymentMethod.Label)
		row.AddCell().SetString(v.PaymentStatus)
		row.AddCell().SetInt(len(v.Items))
		for _, amount := range []decimal.Decimal{
			v.Totals.Subtotal, v.Totals.DeliveryFee, v.Totals.HandlingFee, v.Totals.Discount, v.Totals.Total,
		} {
			row.AddCell().SetFloat(amount.InexactFloat64())
		}
	}

	sheet.AddRow()
	stats := s.computeStats(ordersOf(list))
	summary := [][2]string{
		{"Total Orders", decimal.NewFromInt(int64(stats.TotalOrders)).String()},
		{"Total Revenue", stats.TotalRevenue.Decimal().StringFixed(2)},
		{"Pending", decimal.NewFromInt(int64(stats.PendingOrders)).String()},
		{"Delivered", decimal.NewFromInt(int64(stats.DeliveredOrders)).String()},
		{"Cancelled", decimal.NewFromInt(int64(stats.CancelledOrders)).String()},
	}
	if status != "" && status != "all" {
		summary = append(summary, [2]string{"Filter", strings.ToUpper(order.Parse(status).String())})
	}
	if list.Cached {
		summary = append(summary, [2]string{"Source", "cached copy (backend unavailable)"})
	}
	title := sheet.AddRow().AddCell()
	title.SetString("Summary")
	title.SetStyle(bold)
	for _, kv := range summary {
		row := sheet.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	return file.Write(w)
}
