package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/doctree"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/parser"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/pipeline"
	"github.com/aditisha019/PDF-Analyzer-Adobe/internal/store"
)

// formOverhead is the allowance for multipart boundaries and text fields.
const formOverhead = 1 << 20

func (s *Server) handleAnalyzePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}

	up, code, err := s.readUpload(files[0])
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}

	res, err := s.orchestrator.AnalyzeSingle(r.Context(), up)
	if err != nil {
		s.analysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyzeMultiple(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.MaxUploadBytes*int64(s.cfg.MaxDocuments) + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if n := len(files); n < s.cfg.MinDocuments || n > s.cfg.MaxDocuments {
		jsonError(w, fmt.Sprintf("between %d and %d PDF files are required, got %d",
			s.cfg.MinDocuments, s.cfg.MaxDocuments, n), http.StatusBadRequest)
		return
	}

	topN := 0
	if v := strings.TrimSpace(r.FormValue("top_n")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "top_n must be a non-negative integer", http.StatusBadRequest)
			return
		}
		topN = n
	}
	persona := doctree.PersonaProfile{
		Persona:     strings.TrimSpace(r.FormValue("persona")),
		JobToBeDone: strings.TrimSpace(r.FormValue("job_to_be_done")),
	}

	uploads := make([]pipeline.Upload, 0, len(files))
	for _, fh := range files {
		up, code, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), code)
			return
		}
		uploads = append(uploads, up)
	}

	res, err := s.orchestrator.AnalyzeMulti(r.Context(), uploads, persona, topN)
	if err != nil {
		s.analysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readUpload reads one multipart file and rejects anything that is not a PDF.
func (s *Server) readUpload(fh *multipart.FileHeader) (pipeline.Upload, int, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Upload{}, http.StatusBadRequest,
			fmt.Errorf("%s: only PDF files are supported (got %q)", filename, filepath.Ext(filename))
	}
	if fh.Size > s.cfg.MaxUploadBytes {
		return pipeline.Upload{}, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%s: file exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return pipeline.Upload{}, http.StatusBadRequest, fmt.Errorf("%s: failed to open file", filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Upload{}, http.StatusInternalServerError, fmt.Errorf("%s: failed to read file", filename)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Upload{}, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%s: file exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes)
	}
	if !parser.IsPDF(data) {
		return pipeline.Upload{}, http.StatusBadRequest, fmt.Errorf("%s: content is not a PDF", filename)
	}
	return pipeline.Upload{Name: filename, Data: data}, http.StatusOK, nil
}

// analysisError maps the pipeline error taxonomy onto HTTP status codes.
func (s *Server) analysisError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.log.Error("analysis failed", "error", err)
		jsonError(w, "analysis failed", code)
		return
	}
	jsonError(w, err.Error(), code)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrInvalidPDF),
		errors.Is(err, parser.ErrTooManyPages),
		errors.Is(err, pipeline.ErrDocumentCount):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrExtractionTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func formError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		jsonError(w, "upload exceeds size limit", http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
