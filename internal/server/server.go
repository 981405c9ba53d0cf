// Package server exposes the extraction pipeline over HTTP:
//
//	POST /assignments/pdf_upload?use_llm_repair={true|false}  (multipart)
//	POST /assignments/text_upload?use_llm_repair={true|false} (multipart)
//	POST /assignments/confirm                                 (JSON)
//	GET  /healthz
//
// Upload responses carry the extracted items plus a review payload so a
// frontend can drive the confirmation screen from a single round trip.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/syllascan/syllascan/internal/cache"
	"github.com/syllascan/syllascan/internal/ingest"
	"github.com/syllascan/syllascan/internal/model"
	"github.com/syllascan/syllascan/internal/pipeline"
	"github.com/syllascan/syllascan/internal/validate"
)

// Browsers are unreliable about content types, so each upload endpoint
// accepts a file when either the declared type or the extension matches.
var (
	allowedPDFTypes = map[string]bool{
		"application/pdf":          true,
		"application/x-pdf":        true,
		"application/octet-stream": true,
		"binary/octet-stream":      true,
	}
	allowedTextTypes = map[string]bool{
		"text/plain":               true,
		"text/markdown":            true,
		"application/octet-stream": true,
	}
	allowedTextExts = map[string]bool{
		".txt":  true,
		".text": true,
		".md":   true,
	}
)

// Server wraps a pipeline and exposes the upload/confirm endpoints.
type Server struct {
	pipe      *pipeline.Pipeline
	maxUpload int64
	verbose   bool
}

// New returns an http.Handler with routes bound.
func New(pipe *pipeline.Pipeline, cfg *model.Config) http.Handler {
	s := &Server{
		pipe:      pipe,
		maxUpload: cfg.Server.MaxUploadBytes,
		verbose:   cfg.Output.Verbose,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /assignments/pdf_upload", s.handlePDFUpload)
	mux.HandleFunc("POST /assignments/text_upload", s.handleTextUpload)
	mux.HandleFunc("POST /assignments/confirm", s.handleConfirm)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// uploadResponse is the unified payload for both upload endpoints.
type uploadResponse struct {
	Status      string             `json:"status"`
	RequestID   string             `json:"request_id"`
	PDFTitle    string             `json:"pdf_title"`
	Term        string             `json:"term,omitempty"`
	YearHint    int                `json:"year_hint,omitempty"`
	TotalPages  int                `json:"total_pages"`
	Items       []model.Assignment `json:"items"`
	Summary     model.Summary      `json:"summary"`
	Review      validate.Review    `json:"review"`
	LLMUsed     bool               `json:"llm_used"`
	LLMError    string             `json:"llm_error,omitempty"`
}

type errorResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) handlePDFUpload(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	data, filename, ok := s.readUpload(w, r, requestID, func(ct, ext string) bool {
		return allowedPDFTypes[ct] || ext == ".pdf"
	})
	if !ok {
		return
	}

	s.extractAndRespond(w, r, requestID, ingest.NewPDFSource(filename, data), cache.KeyForBytes(data), filename)
}

func (s *Server) handleTextUpload(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	data, filename, ok := s.readUpload(w, r, requestID, func(ct, ext string) bool {
		return allowedTextTypes[ct] || strings.HasPrefix(ct, "text/") || allowedTextExts[ext]
	})
	if !ok {
		return
	}

	s.extractAndRespond(w, r, requestID, ingest.NewTextSource(filename, string(data)), cache.KeyForBytes(data), filename)
}

// readUpload parses the multipart form and enforces the size cap and the
// endpoint's type allowlist. On failure it writes the error response and
// returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, requestID string, typeOK func(contentType, ext string) bool) ([]byte, string, bool) {
	if s.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, requestID, fmt.Sprintf("parse upload: %v", err))
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, requestID, "missing file field")
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	contentType := mediaType(header)
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !typeOK(contentType, ext) {
		writeError(w, http.StatusUnsupportedMediaType, requestID, fmt.Sprintf("unsupported file type: %s", contentType))
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, requestID, fmt.Sprintf("read upload: %v", err))
		return nil, "", false
	}

	return data, header.Filename, true
}

// extractAndRespond runs the pipeline and writes the unified response.
// An LLM repair failure is reported in the body, never as a 5xx.
func (s *Server) extractAndRespond(w http.ResponseWriter, r *http.Request, requestID string, src ingest.Source, cacheKey, filename string) {
	opts := pipeline.Options{UseLLMRepair: boolQuery(r, "use_llm_repair")}

	result, err := s.pipe.ExtractSource(r.Context(), src, cacheKey, opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, requestID, fmt.Sprintf("extract: %v", err))
		return
	}

	if s.verbose {
		log.Printf("[%s] %s: %d items (%d dated), llm_used=%v",
			requestID, filename, result.Summary.Total, result.Summary.Dated, result.LLMUsed)
	}

	title := result.CourseTitle
	if title == "" {
		title = filename
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Status:     "ok",
		RequestID:  requestID,
		PDFTitle:   title,
		Term:       result.Term,
		YearHint:   result.YearHint,
		TotalPages: result.TotalPages,
		Items:      result.Items,
		Summary:    result.Summary,
		Review:     validate.PrepareReview(result.Items),
		LLMUsed:    result.LLMUsed,
		LLMError:   result.LLMError,
	})
}

type confirmRequest struct {
	OriginalItems []model.Assignment `json:"original_items"`
	EditedItems   []model.Assignment `json:"edited_items"`
}

type confirmResponse struct {
	validate.Outcome
	RequestID string `json:"request_id"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, requestID, fmt.Sprintf("decode request: %v", err))
		return
	}

	outcome, err := validate.Confirm(req.OriginalItems, req.EditedItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, requestID, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{Outcome: outcome, RequestID: requestID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mediaType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, requestID, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", RequestID: requestID, Message: msg})
}
