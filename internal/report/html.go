// Package report assembles the HTML view, the PDF document and the cleaned CSV.
package report

import (
	"embed"
	"html/template"
	"io"

	"eda-backend/internal/models"
	"eda-backend/internal/state"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"dataURI": func(img models.Image) template.URL {
		return template.URL(img.DataURI())
	},
}).ParseFS(templateFS, "templates/*.html"))

// DefaultPreviewRows is how many rows of the uploaded table the HTML view shows.
const DefaultPreviewRows = 20

// View is the data rendered by report.html.
type View struct {
	FileName  string
	Headers   []string
	Rows      [][]string
	TotalRows int
	Images    []models.Image
	Warnings  []string
	PDFURL    string
	CSVURL    string
}

// NewView previews the first previewRows rows of the original, uncleaned table.
func NewView(original *state.DataFrame, images []models.Image, links models.ArtifactLinks, previewRows int, warnings []string) View {
	n := original.NumRows()
	if previewRows >= 0 && previewRows < n {
		n = previewRows
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = original.Row(i)
	}
	return View{
		FileName:  original.FileName,
		Headers:   original.Headers(),
		Rows:      rows,
		TotalRows: original.NumRows(),
		Images:    images,
		Warnings:  warnings,
		PDFURL:    links.PDF,
		CSVURL:    links.CSV,
	}
}

// RenderHTML writes the report page.
func RenderHTML(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "report.html", v)
}

// RenderIndex writes the upload form.
func RenderIndex(w io.Writer) error {
	return templates.ExecuteTemplate(w, "index.html", nil)
}
