package handler

import (
	"net/http"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// MessageHandler handles follow-up chat turns.
type MessageHandler struct {
	chat          *service.ChatService
	maxImageBytes int64
	logger        *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(chat *service.ChatService, maxImageBytes int64, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		chat:          chat,
		maxImageBytes: maxImageBytes,
		logger:        log,
	}
}

// Send handles POST /api/v1/sessions/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	// two inline images at most
	if !decodeJSON(w, r, 2*dataURLSize(h.maxImageBytes)+maxJSONBody, &req) {
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateOccasion(req.Occasion); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chat.Send(ctx, service.ChatInput{
		UserID:    middleware.GetUserID(ctx),
		SessionID: sessionID,
		Message:   req.Message,
		Occasion:  req.Occasion,
		NewImage:  model.NewImageRef(req.NewImage),
		Image:     model.NewImageRef(req.Image),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
