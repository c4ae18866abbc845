package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

// Sizes in millimetres.
const (
	pdfMargin    = 15.0
	imageWidth   = 127.0 // 5in
	imageHeight  = 76.2  // 3in
	rowHeight    = 5.0
	titleSpacer  = 7.62 // 0.3in
	tableSpacer  = 12.7 // 0.5in
	imageSpacer  = 7.62
	minCellWidth = 12.0
)

// PDFTitle heads every generated document.
const PDFTitle = "EDA Report"

// WritePDF renders the whole cleaned table followed by every image into a Letter-sized PDF.
func WritePDF(path string, df *state.DataFrame, images []models.Image) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, PDFTitle, "", 1, "C", false, 0, "")
	pdf.Ln(titleSpacer)

	writeTable(pdf, tr, df)
	pdf.Ln(tableSpacer)

	pageW, _ := pdf.GetPageSize()
	x := (pageW - imageWidth) / 2
	for i, img := range images {
		name := fmt.Sprintf("plot-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.PNG))
		pdf.ImageOptions(name, x, 0, imageWidth, imageHeight, true, opts, 0, "")
		pdf.Ln(imageSpacer)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// writeTable draws df as a grid, repeating the header row at the top of each page.
func writeTable(pdf *fpdf.Fpdf, tr func(string) string, df *state.DataFrame) {
	headers := df.Headers()
	if len(headers) == 0 {
		return
	}
	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin
	colW := usable / float64(len(headers))
	fontSize := 8.0
	if colW < 20 {
		fontSize = 6
	}
	if colW < minCellWidth {
		colW = minCellWidth
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetFillColor(220, 220, 220)
		for _, h := range headers {
			pdf.CellFormat(colW, rowHeight, fitText(pdf, tr(h), colW), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", fontSize)
	}

	header()
	for i := 0; i < df.NumRows(); i++ {
		if pdf.GetY()+rowHeight > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}
		for _, cell := range df.Row(i) {
			pdf.CellFormat(colW, rowHeight, fitText(pdf, tr(cell), colW), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fitText truncates s so it fits inside a cell of width w.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
