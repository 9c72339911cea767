package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/metrics"
)

// Exporter строит PDF-выгрузку заказа.
type Exporter struct {
	logger  *log.Entry
	metrics *metrics.StorefrontMetrics
}

// NewExporter создаёт экспортёр.
func NewExporter(logger *log.Entry, m *metrics.StorefrontMetrics) *Exporter {
	if logger == nil {
		logger = log.WithField("component", "export")
	}
	return &Exporter{logger: logger, metrics: m}
}

// Export собирает документ заказа и рендерит его в PDF.
// Возвращает имя файла и содержимое.
func (e *Exporter) Export(order domain.Order, customerName string) (string, []byte, error) {
	doc, err := BuildDocument(order, customerName)
	if err != nil {
		e.metrics.RecordExportFailure()
		return "", nil, err
	}

	pdf, err := RenderPDF(doc)
	if err != nil {
		e.metrics.RecordExportFailure()
		e.logger.WithError(err).WithField("order_id", order.OrderID).Error("pdf render failed")
		return "", nil, err
	}

	return doc.FileName, pdf, nil
}

// RenderPDF рендерит документ в PDF. Базовые шрифты PDF не содержат
// знака рупии, поэтому суммы в файле печатаются как "INR 60.00";
// экранное представление со знаком ₹ остаётся за Document.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Order Details")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order #%d", doc.OrderID))
	pdf.Ln(7)
	if doc.CustomerName != "" {
		pdf.Cell(0, 7, "Customer: "+doc.CustomerName)
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, "Date: "+doc.OrderDate.Format("02 Jan 2006"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status: "+string(doc.Status))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, row := range doc.Rows {
		pdf.CellFormat(130, 8, row.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, inr(row.Subtotal), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, inr(doc.Total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func inr(amount float64) string {
	return fmt.Sprintf("INR %.2f", amount)
}
