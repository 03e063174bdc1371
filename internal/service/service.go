// Package service orchestrates the stylist pipeline: prompts, completions,
// normalization, score gating and persistence.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// FallbackMessage is shown to the user whenever the completion call fails.
const FallbackMessage = "Oops, something went wrong. Can you try again?"

// Completion parameters per operation.
const (
	analysisMaxTokens  = 1000
	chatMaxTokens      = 800
	describeMaxTokens  = 300
	diagnosisMaxTokens = 1500
	temperature        = 0.7
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// events publishes session events without failing the caller.
type events struct {
	pub    store.EventPublisher
	logger *logger.Logger
}

func (e events) publish(ctx context.Context, sessionID, userID string, typ model.EventType, reason string, metadata map[string]any) {
	if e.pub == nil {
		return
	}
	ev := &model.SessionEvent{
		ID:        newID(),
		SessionID: sessionID,
		UserID:    userID,
		Type:      typ,
		Reason:    reason,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := e.pub.PublishEvent(ctx, ev); err != nil {
		e.logger.Warn("failed to publish session event",
			zap.String("session_id", sessionID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

func (e events) failure(ctx context.Context, sessionID, userID string, err error) {
	typ := model.EventTypeUpstreamError
	if errors.Is(err, context.DeadlineExceeded) {
		typ = model.EventTypeTimeout
	}
	e.publish(ctx, sessionID, userID, typ, err.Error(), nil)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
