package handler

import (
	"net/http"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// WardrobeHandler handles wardrobe and garment description endpoints.
type WardrobeHandler struct {
	wardrobe      *service.WardrobeService
	maxImageBytes int64
	logger        *logger.Logger
}

// NewWardrobeHandler creates a new wardrobe handler.
func NewWardrobeHandler(wardrobe *service.WardrobeService, maxImageBytes int64, log *logger.Logger) *WardrobeHandler {
	return &WardrobeHandler{
		wardrobe:      wardrobe,
		maxImageBytes: maxImageBytes,
		logger:        log,
	}
}

// List handles GET /api/v1/wardrobe
func (h *WardrobeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.wardrobe.List(ctx, middleware.GetUserID(ctx), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /api/v1/wardrobe
func (h *WardrobeHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AddWardrobeItemRequest
	if !decodeJSON(w, r, dataURLSize(h.maxImageBytes)+maxJSONBody, &req) {
		return
	}

	item, err := h.wardrobe.Add(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Describe handles POST /api/v1/describe-item
func (h *WardrobeHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req model.DescribeItemRequest
	if !decodeJSON(w, r, dataURLSize(h.maxImageBytes)+maxJSONBody, &req) {
		return
	}

	desc, err := h.wardrobe.Describe(r.Context(), model.NewImageRef(req.Image))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.DescribeItemResponse{Description: desc})
}
