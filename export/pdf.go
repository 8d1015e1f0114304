package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	rowHeight   = 7.0
	fontFamily  = "Helvetica"
	bodySize    = 9.0
	minColWidth = 14.0
)

// WritePDF renders the table on A4, landscape when it has more than seven columns.
// The header row is shaded, bold and repeated on every page.
func WritePDF(w io.Writer, t *Table) error {
	orientation := "P"
	if len(t.Header) > 7 {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", bodySize)
	widths := columnWidths(pdf, t)

	drawHeader := func() {
		pdf.SetFont(fontFamily, "B", bodySize)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetDrawColor(128, 128, 128)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], rowHeight, tr(fit(pdf, h, widths[i])), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", bodySize)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			drawHeader()
		}
		for i := range t.Header {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if t.rightAligned(i) {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowHeight, tr(fit(pdf, cell, widths[i])), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// columnWidths splits the printable width in proportion to the widest cell of each column.
func columnWidths(pdf *fpdf.Fpdf, t *Table) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	available := pageWidth - left - right

	natural := make([]float64, len(t.Header))
	var total float64
	for i, h := range t.Header {
		width := pdf.GetStringWidth(h) + 4
		for _, row := range t.Rows {
			if i < len(row) {
				if cw := pdf.GetStringWidth(row[i]) + 4; cw > width {
					width = cw
				}
			}
		}
		if width < minColWidth {
			width = minColWidth
		}
		natural[i] = width
		total += width
	}

	widths := make([]float64, len(natural))
	for i, n := range natural {
		widths[i] = n / total * available
	}
	return widths
}

func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
