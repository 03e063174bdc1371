package handler

import (
	"net/http"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// DiagnosisHandler handles style diagnosis endpoints.
type DiagnosisHandler struct {
	diagnosis     *service.DiagnosisService
	maxImageBytes int64
	logger        *logger.Logger
}

// NewDiagnosisHandler creates a new diagnosis handler.
func NewDiagnosisHandler(diagnosis *service.DiagnosisService, maxImageBytes int64, log *logger.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{
		diagnosis:     diagnosis,
		maxImageBytes: maxImageBytes,
		logger:        log,
	}
}

// Get handles GET /api/v1/style-diagnosis
func (h *DiagnosisHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := h.diagnosis.Get(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// Create handles POST /api/v1/style-diagnosis
func (h *DiagnosisHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.StyleDiagnosisRequest
	// front, side and face photos
	if !decodeJSON(w, r, 3*dataURLSize(h.maxImageBytes)+maxJSONBody, &req) {
		return
	}

	d, err := h.diagnosis.Diagnose(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}
