package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adiwr/token-display/internal/application/services"
	"github.com/adiwr/token-display/internal/domain/amount"
)

// maxBatchItems bounds a single batch format request
const maxBatchItems = 100

// FormatHandler handles HTTP requests for amount conversion
type FormatHandler struct {
	service *services.FormatService
	logger  *zap.Logger
}

// NewFormatHandler creates a new format handler
func NewFormatHandler(service *services.FormatService, logger *zap.Logger) *FormatHandler {
	return &FormatHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the conversion routes
func (h *FormatHandler) RegisterRoutes(r chi.Router) {
	r.Get("/assets/{symbol}/format", h.FormatAmount)
	r.Get("/assets/{symbol}/parse", h.ParseAmount)
	r.Post("/format/batch", h.FormatBatch)
}

// FormatAmount handles GET /api/v1/assets/{symbol}/format?amount=RAW&add_symbol=true
func (h *FormatHandler) FormatAmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	if !isValidSymbol(symbol) {
		h.respondError(w, http.StatusBadRequest, "Invalid symbol format")
		return
	}

	raw := r.URL.Query().Get("amount")
	if raw == "" {
		h.respondError(w, http.StatusBadRequest, "Missing amount parameter")
		return
	}

	addSymbol := r.URL.Query().Get("add_symbol") == "true"

	response, err := h.service.FormatAmount(ctx, symbol, raw, addSymbol)
	if err != nil {
		h.respondServiceError(w, err, symbol)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// ParseAmount handles GET /api/v1/assets/{symbol}/parse?amount=HUMAN
func (h *FormatHandler) ParseAmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	if !isValidSymbol(symbol) {
		h.respondError(w, http.StatusBadRequest, "Invalid symbol format")
		return
	}

	human := r.URL.Query().Get("amount")
	if human == "" {
		h.respondError(w, http.StatusBadRequest, "Missing amount parameter")
		return
	}

	response, err := h.service.ParseAmount(ctx, symbol, human)
	if err != nil {
		h.respondServiceError(w, err, symbol)
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// FormatBatch handles POST /api/v1/format/batch
func (h *FormatHandler) FormatBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.BatchFormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Items) == 0 {
		h.respondError(w, http.StatusBadRequest, "Empty batch")
		return
	}
	if len(req.Items) > maxBatchItems {
		h.respondError(w, http.StatusBadRequest, "Batch too large")
		return
	}

	response, err := h.service.FormatBatch(ctx, req)
	if err != nil {
		h.logger.Error("Failed to format batch", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to format batch")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// respondServiceError maps conversion errors to HTTP status codes
func (h *FormatHandler) respondServiceError(w http.ResponseWriter, err error, symbol string) {
	switch {
	case errors.Is(err, amount.ErrInvalidAmount):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAssetNotFound):
		h.respondError(w, http.StatusNotFound, "asset not found")
	default:
		h.logger.Error("Conversion failed", zap.Error(err), zap.String("symbol", symbol))
		h.respondError(w, http.StatusInternalServerError, "Conversion failed")
	}
}

func (h *FormatHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *FormatHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
