package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

const (
	pageMargin = 10.0
	lineHeight = 4.5
)

// PDFExporter renders datasets into a landscape table. Cell values may span several
// lines; each row grows to fit its tallest cell.
type PDFExporter struct {
	firstColumn float64
}

// NewPDFExporter constructs a PDF exporter. firstColumn fixes the width of the leading
// column in millimetres; zero shares the width evenly.
func NewPDFExporter(firstColumn float64) *PDFExporter {
	return &PDFExporter{firstColumn: firstColumn}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	widths := e.columnWidths(pageWidth-2*pageMargin, len(data.Headers))

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Arial", "B", 9)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range data.Rows {
		height := rowHeight(data.Headers, row)
		if pdf.GetY()+height > pageHeight-pageMargin {
			pdf.AddPage()
		}
		left, top := pdf.GetXY()
		x := left
		for i, header := range data.Headers {
			pdf.Rect(x, top, widths[i], height, "D")
			pdf.SetXY(x, top)
			pdf.MultiCell(widths[i], lineHeight, tr(row[header]), "", "L", false)
			x += widths[i]
		}
		pdf.SetXY(left, top+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(total float64, columns int) []float64 {
	widths := make([]float64, columns)
	rest := total
	start := 0
	if e.firstColumn > 0 && e.firstColumn < total && columns > 1 {
		widths[0] = e.firstColumn
		rest -= e.firstColumn
		start = 1
	}
	each := rest / float64(columns-start)
	for i := start; i < columns; i++ {
		widths[i] = each
	}
	return widths
}

func rowHeight(headers []string, row map[string]string) float64 {
	lines := 1
	for _, header := range headers {
		if n := strings.Count(row[header], "\n") + 1; n > lines {
			lines = n
		}
	}
	return float64(lines)*lineHeight + 1
}
