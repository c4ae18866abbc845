package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"eda-backend/internal/ingest"
	"eda-backend/internal/report"
	"eda-backend/internal/service"
	"eda-backend/internal/state"
)

// Handler serves the upload form, the generated reports and their artifacts.
type Handler struct {
	Reports        *service.ReportService
	StaticDir      string
	PreviewRows    int
	MaxUploadBytes int64
}

func NewHandler(reports *service.ReportService, staticDir string, previewRows int, maxUploadBytes int64) *Handler {
	return &Handler{
		Reports:        reports,
		StaticDir:      staticDir,
		PreviewRows:    previewRows,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)

	r.Post("/upload", h.Upload)
	r.Post("/analyze", h.Analyze)
	r.Get("/download_csv", h.DownloadCSV)

	r.Get("/reports/{id}/"+service.PDFName, h.ReportPDF)
	r.Get("/reports/{id}/"+service.CSVName, h.ReportCSV)
	r.Get("/api/reports/{id}", h.ReportSummary)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.StaticDir))))
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Index renders the upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.RenderIndex(&buf); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Upload runs the whole pipeline on the multipart field "file" and answers with the HTML report.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header.Filename == "" {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !ingest.AllowedExtension(header.Filename) {
		http.Error(w, "Invalid file type", http.StatusBadRequest)
		return
	}

	res, err := h.Reports.Generate(r.Context(), service.Upload{Name: header.Filename, Body: file})
	if err != nil {
		writeError(w, r, err)
		return
	}

	view := report.NewView(res.Original, res.Images, res.Links, h.PreviewRows, res.Clean.Warnings)
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, view); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Analyze keeps the legacy form target working.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/upload", http.StatusTemporaryRedirect)
}

// DownloadCSV serves the cleaned CSV of the most recent report.
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	id := state.State.LatestReport()
	if id == "" {
		http.Error(w, "No cleaned data available", http.StatusNotFound)
		return
	}
	h.serveArtifact(w, r, id, func(p service.Paths) string { return p.CSV }, true)
}

func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, chi.URLParam(r, "id"), func(p service.Paths) string { return p.PDF }, false)
}

func (h *Handler) ReportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, chi.URLParam(r, "id"), func(p service.Paths) string { return p.CSV }, true)
}

// ReportSummary returns the stored JSON summary of a report.
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reports.Summary(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) serveArtifact(w http.ResponseWriter, r *http.Request, id string, pick func(service.Paths) string, attachment bool) {
	paths, err := h.Reports.Paths(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	path := pick(paths)
	if _, err := os.Stat(path); err != nil {
		writeError(w, r, err)
		return
	}
	if attachment {
		w.Header().Set("Content-Disposition", `attachment; filename="`+service.CSVName+`"`)
	}
	http.ServeFile(w, r, path)
}
