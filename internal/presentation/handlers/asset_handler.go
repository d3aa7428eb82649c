package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adiwr/token-display/internal/application/services"
)

// AssetHandler handles HTTP requests for the asset registry
type AssetHandler struct {
	service *services.AssetService
	logger  *zap.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(service *services.AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the asset routes
func (h *AssetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/assets", h.GetAllAssets)
	r.Post("/assets", h.RegisterAsset)
	r.Get("/assets/{symbol}", h.GetBySymbol)
}

// GetAllAssets handles GET /api/v1/assets
func (h *AssetHandler) GetAllAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters with defaults
	limit := 100
	offset := 0
	sortBy := "symbol"
	sortOrder := "asc"

	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}
	if v := r.URL.Query().Get("sort_by"); v != "" {
		sortBy = v
	}
	if v := r.URL.Query().Get("sort_order"); v != "" {
		v = strings.ToLower(v)
		if v == "asc" || v == "desc" {
			sortOrder = v
		}
	}

	response, err := h.service.GetAllAssets(ctx, limit, offset, sortBy, sortOrder)
	if err != nil {
		h.logger.Error("Failed to get assets", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to get assets")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetBySymbol handles GET /api/v1/assets/{symbol}
func (h *AssetHandler) GetBySymbol(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := chi.URLParam(r, "symbol")

	if !isValidSymbol(symbol) {
		h.respondError(w, http.StatusBadRequest, "Invalid symbol format")
		return
	}

	response, err := h.service.GetBySymbol(ctx, symbol)
	if err != nil {
		h.logger.Error("Failed to get asset", zap.Error(err), zap.String("symbol", symbol))
		h.respondError(w, http.StatusInternalServerError, "Failed to get asset")
		return
	}

	if response == nil {
		h.respondError(w, http.StatusNotFound, "asset not found")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// RegisterAsset handles POST /api/v1/assets
func (h *AssetHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.RegisterAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.service.Register(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAsset) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to register asset", zap.Error(err), zap.String("symbol", req.Symbol))
		h.respondError(w, http.StatusInternalServerError, "Failed to register asset")
		return
	}

	h.respondJSON(w, http.StatusCreated, response)
}

func (h *AssetHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *AssetHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// isValidSymbol bounds symbols to short alphanumeric tickers
func isValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 16 {
		return false
	}
	for _, c := range symbol {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
