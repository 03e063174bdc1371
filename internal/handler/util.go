package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// maxJSONBody bounds request bodies that carry no image.
const maxJSONBody = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// decodeJSON reads a JSON body of at most limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors onto HTTP responses. Completion
// failures answer with the fallback chat message so clients can show it as-is.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, model.ErrTurnInFlight):
		w.Header().Set("Retry-After", "2")
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidImage),
		errors.Is(err, model.ErrEmptyMessage),
		errors.Is(err, model.ErrMissingDescription),
		errors.Is(err, model.ErrInvalidMeasurements),
		errors.Is(err, model.ErrMissingPhotos):
		writeError(w, http.StatusBadRequest, err.Error())
	case llm.IsFailure(err):
		writeJSON(w, http.StatusBadGateway, &model.FailureResponse{
			Error:        failureCode(err),
			ChatResponse: service.FallbackMessage,
			Retryable:    retryable(err),
		})
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to write
	default:
		log.Error("request failed",
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, llm.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "upstream_error"
	}
}

func retryable(err error) bool {
	var up *llm.UpstreamError
	if errors.As(err, &up) {
		return up.Temporary()
	}
	return true
}

// queryInt returns the integer query parameter or def when absent or invalid.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
