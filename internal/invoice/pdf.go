package invoice

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02 15:04"

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

// RenderPDF dibuja el documento en A4. Las fuentes core de gofpdf no tienen
// el símbolo de la rupia, por eso se usa "Rs.".
func RenderPDF(w io.Writer, doc *Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Datos del comercio
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, doc.Merchant.Name)
	pdf.SetFont("Arial", "", 11)
	pdf.Ln(8)
	pdf.Cell(100, 7, doc.Merchant.Address)
	pdf.Ln(6)
	pdf.Cell(100, 7, fmt.Sprintf("Email: %s | Phone: %s", doc.Merchant.Email, doc.Merchant.Phone))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(11)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(80, 7, "Invoice No: "+doc.Meta.InvoiceNumber)
	pdf.Cell(80, 7, "Invoice Date: "+doc.Meta.InvoiceDate.Format(dateLayout))
	pdf.Ln(6)
	orderDate := "N/A"
	if !doc.Meta.OrderDate.IsZero() {
		orderDate = doc.Meta.OrderDate.Format(dateLayout)
	}
	pdf.Cell(80, 7, "Order ID: "+doc.Meta.OrderID)
	pdf.Cell(80, 7, "Order Date: "+orderDate)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 7, "Bill To / Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(100, 6, doc.BillTo.Name)
	pdf.Ln(6)
	pdf.Cell(100, 6, "Phone: "+doc.BillTo.Phone)
	pdf.Ln(6)
	pdf.Cell(100, 6, "Email: "+doc.BillTo.Email)
	pdf.Ln(6)
	pdf.MultiCell(180, 6, doc.BillTo.Address, "", "L", false)
	pdf.Ln(4)

	// Tabla de productos
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(88, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, r := range doc.Rows {
		name := r.Name
		if r.Size != "" {
			name = fmt.Sprintf("%s (%s)", r.Name, r.Size)
		}
		pdf.CellFormat(12, 8, fmt.Sprint(r.Index), "1", 0, "C", false, 0, "")
		pdf.CellFormat(88, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, r.Quantity.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, money(r.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, money(r.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Resumen
	pdf.Ln(4)
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal:", money(doc.Totals.Subtotal)},
		{"Delivery Fee:", money(doc.Totals.DeliveryFee)},
		{"Handling Fee:", money(doc.Totals.HandlingFee)},
		{"Discount:", "- " + money(doc.Totals.Discount)},
	}
	for _, t := range totals {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(150, 7, t.label, "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(30, 7, t.value, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(150, 9, "Grand Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 9, money(doc.Totals.Total), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Payment: %s (%s)", doc.Payment.Method, doc.Payment.Status))
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 8, "Thank you for shopping with "+doc.Merchant.Name+"!")

	return pdf.Output(w)
}
