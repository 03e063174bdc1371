package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// AnalyzeHandler handles outfit analysis and history.
type AnalyzeHandler struct {
	analysis      *service.AnalysisService
	maxImageBytes int64
	logger        *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analysis *service.AnalysisService, maxImageBytes int64, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis:      analysis,
		maxImageBytes: maxImageBytes,
		logger:        log,
	}
}

// Analyze handles POST /api/v1/analyze. The photo arrives either as a
// multipart "image" file or as a JSON body with a data or http(s) URL.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		req model.AnalyzeRequest
		ok  bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		ok = h.readMultipart(w, r, &req)
	} else {
		ok = decodeJSON(w, r, dataURLSize(h.maxImageBytes)+maxJSONBody, &req)
	}
	if !ok {
		return
	}

	if err := middleware.ValidateOccasion(req.Occasion); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID != "" {
		if err := middleware.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp, err := h.analysis.Analyze(ctx, service.AnalyzeInput{
		UserID:          middleware.GetUserID(ctx),
		SessionID:       req.SessionID,
		Occasion:        req.Occasion,
		Image:           model.NewImageRef(req.Image),
		WardrobeContext: req.WardrobeContext,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/history
func (h *AnalyzeHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.analysis.History(ctx, middleware.GetUserID(ctx), queryInt(r, "limit", 50))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalyzeHandler) readMultipart(w http.ResponseWriter, r *http.Request, req *model.AnalyzeRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+maxJSONBody)
	if err := r.ParseMultipartForm(h.maxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}

	req.SessionID = r.FormValue("session_id")
	req.Occasion = r.FormValue("occasion")
	req.WardrobeContext = r.FormValue("wardrobe_context")

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return false
	}
	if int64(len(data)) > h.maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return false
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, model.ErrInvalidImage.Error())
		return false
	}

	req.Image = model.EncodeDataURL(contentType, data)
	return true
}

// dataURLSize is the length of a base64 data URL for n raw bytes.
func dataURLSize(n int64) int64 {
	return (n+2)/3*4 + 64
}
