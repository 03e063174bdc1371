package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
)

// StreamHandler serves a session's turns over SSE.
type StreamHandler struct {
	sessions  *service.SessionService
	logger    *logger.Logger
	heartbeat time.Duration
	poll      time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(sessions *service.SessionService, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		sessions:  sessions,
		logger:    log,
		heartbeat: 30 * time.Second,
		poll:      2 * time.Second,
	}
}

// ReplayCompleteEvent marks the end of the stored-turn replay.
type ReplayCompleteEvent struct {
	LastSequence uint64 `json:"last_sequence"`
	TurnCount    int    `json:"turn_count"`
}

// Stream handles GET /api/v1/sessions/{id}/stream
// Supports ?after_sequence=N or Last-Event-ID for resuming. Stored turns are
// replayed first; turns appended later are pushed as they appear.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	sessionID, ok := sessionParam(w, r)
	if !ok {
		return
	}

	after, err := afterSequence(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid after_sequence")
		return
	}

	replay, err := h.sessions.Turns(ctx, userID, sessionID, after)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	log := h.logger.WithSession(sessionID)

	sendSSEEvent(w, flusher, "connected", "", map[string]string{
		"session_id": sessionID,
	})

	for _, t := range replay.Turns {
		sendSSEEvent(w, flusher, "turn", strconv.FormatUint(t.Sequence, 10), t)
	}
	last := replay.LastSequence

	sendSSEEvent(w, flusher, "replay_complete", "", &ReplayCompleteEvent{
		LastSequence: last,
		TurnCount:    len(replay.Turns),
	})

	log.Info("turn replay complete", zap.Int("turns_replayed", len(replay.Turns)), zap.Uint64("last_sequence", last))

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()
	poll := time.NewTicker(h.poll)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("SSE client disconnected")
			return

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", "", &model.HeartbeatEvent{
				Timestamp: time.Now().UTC(),
			})

		case <-poll.C:
			newer, err := h.sessions.Turns(ctx, userID, sessionID, last)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("failed to poll turns", zap.Error(err))
				sendSSEEvent(w, flusher, "error", "", &model.ErrorEvent{
					Code:       "poll_error",
					Message:    "Failed to load new turns",
					RetryAfter: int(h.poll.Seconds()),
				})
				continue
			}
			for _, t := range newer.Turns {
				sendSSEEvent(w, flusher, "turn", strconv.FormatUint(t.Sequence, 10), t)
			}
			last = newer.LastSequence
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, id string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
