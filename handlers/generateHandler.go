package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"quizbank/models"
	"quizbank/services/generate"

	"github.com/gorilla/mux"
)

// 25 MB cap on uploaded PDF form bodies.
const maxPDFUploadBytes = 25 << 20

type GenerateHandler struct {
	service *generate.Service
}

func NewGenerateHandler(service *generate.Service) *GenerateHandler {
	return &GenerateHandler{service: service}
}

func (h *GenerateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/generate/from-link", h.GenerateFromLink).Methods("POST")
	router.HandleFunc("/generate/from-links", h.GenerateFromLinks).Methods("POST")
	router.HandleFunc("/generate/from-pdf", h.GenerateFromPDF).Methods("POST")
	router.HandleFunc("/generate/from-text", h.GenerateFromText).Methods("POST")
}

func (h *GenerateHandler) GenerateFromLink(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_json")
		return
	}

	result, err := h.service.GenerateFromLink(r.Context(), &req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *GenerateHandler) GenerateFromLinks(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_json")
		return
	}

	result, err := h.service.GenerateFromLinks(r.Context(), &req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *GenerateHandler) GenerateFromPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_multipart_form")
		return
	}

	file, _, err := r.FormFile("pdf")
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "pdf_file_missing")
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[ERROR] Failed to read uploaded pdf: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "pdf_read_failed")
		return
	}

	result, err := h.service.GenerateFromPDF(r.Context(), pdf,
		r.FormValue("size"), r.FormValue("topic"), r.FormValue("sub_topic"))
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *GenerateHandler) GenerateFromText(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_json")
		return
	}

	result, err := h.service.GenerateFromText(r.Context(), &req)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

// writePipelineError surfaces the stable machine code of a pipeline failure;
// anything else becomes an opaque 500.
func (h *GenerateHandler) writePipelineError(w http.ResponseWriter, err error) {
	var pipelineErr *generate.Error
	if errors.As(err, &pipelineErr) {
		h.writeErrorResponse(w, pipelineErr.Status, pipelineErr.Code)
		return
	}

	log.Printf("[ERROR] Unclassified generation failure: %v", err)
	h.writeErrorResponse(w, http.StatusInternalServerError, "internal_error")
}

func (h *GenerateHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *GenerateHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
