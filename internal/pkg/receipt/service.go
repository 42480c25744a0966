// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service renders order receipts as PDF.
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Line is one order line enriched with its display name for the receipt.
type Line struct {
	Name     string
	Quantity int
	Price    float64
	Total    float64
}

// Data is the payload passed to the receipt template.
type Data struct {
	StoreName    string
	SupportEmail string
	ReceiptDate  string
	Order        *order.Order
	Lines        []Line
	Subtotal     float64
}

// Generate renders a PDF receipt for an order. Line names are resolved by the
// caller since the order itself only records product IDs.
func (s *Service) Generate(o *order.Order, lines []Line) (*bytes.Buffer, error) {
	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Total
	}

	data := Data{
		StoreName:    s.config.Store.Name,
		SupportEmail: s.config.Store.SupportEmail,
		ReceiptDate:  time.Now().Format("January 2, 2006"),
		Order:        o,
		Lines:        lines,
		Subtotal:     subtotal,
	}

	htmlContent, err := renderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func renderHTML(data Data) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt for Order #{{.Order.ID}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; padding-bottom: 16px; margin-bottom: 24px; }
        .title { font-size: 24px; font-weight: bold; color: #2563eb; }
        .meta td { padding: 4px 12px 4px 0; }
        .meta .label { font-weight: bold; }
        .items { width: 100%; border-collapse: collapse; margin: 24px 0; }
        .items th, .items td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        .items th { background-color: #f8f9fa; }
        .items .num { text-align: right; width: 90px; }
        .totals { float: right; width: 280px; }
        .totals td { padding: 6px 8px; border-bottom: 1px solid #eee; }
        .totals .label { text-align: right; font-weight: bold; }
        .totals .amount { text-align: right; width: 100px; }
        .total-row { font-size: 16px; font-weight: bold; border-top: 2px solid #333; }
        .footer { margin-top: 48px; padding-top: 16px; border-top: 1px solid #eee;
                  text-align: center; color: #666; font-size: 12px; }
        .status { text-transform: uppercase; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.StoreName}}</div>
        <p>Order Receipt</p>
    </div>

    <table class="meta">
        <tr><td class="label">Order #:</td><td>{{.Order.ID}}</td></tr>
        <tr><td class="label">Order Date:</td><td>{{.Order.CreatedAt.Format "January 2, 2006"}}</td></tr>
        <tr><td class="label">Receipt Date:</td><td>{{.ReceiptDate}}</td></tr>
        <tr><td class="label">Status:</td><td class="status">{{.Order.Status}}</td></tr>
    </table>

    <table class="items">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Unit Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">${{printf "%.2f" .Price}}</td>
                <td class="num">${{printf "%.2f" .Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td class="label">Subtotal:</td><td class="amount">${{printf "%.2f" .Subtotal}}</td></tr>
            <tr><td class="label">Shipping:</td><td class="amount">${{printf "%.2f" .Order.Shipping}}</td></tr>
            <tr><td class="label">Tax:</td><td class="amount">${{printf "%.2f" .Order.Tax}}</td></tr>
            <tr class="total-row"><td class="label">Total:</td><td class="amount">${{printf "%.2f" .Order.Total}}</td></tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.StoreName}}!</p>
        <p>Questions about this order? Contact us at {{.SupportEmail}}</p>
    </div>
</body>
</html>
`
