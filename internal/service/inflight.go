package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
)

// InFlightGuard allows one turn per session at a time. The lease expires
// after ttl so a crashed request cannot block a session forever.
type InFlightGuard struct {
	locker store.Locker
	ttl    time.Duration
	logger *logger.Logger
}

// NewInFlightGuard creates a guard backed by locker.
func NewInFlightGuard(locker store.Locker, ttl time.Duration, log *logger.Logger) *InFlightGuard {
	return &InFlightGuard{locker: locker, ttl: ttl, logger: log}
}

// Acquire returns model.ErrTurnInFlight when the session is busy. The
// returned release func must be called when the turn completes.
func (g *InFlightGuard) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := "session:" + sessionID

	ok, err := g.locker.Acquire(ctx, key, g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.InFlightRejectedTotal.Inc()
		return nil, model.ErrTurnInFlight
	}

	return func() {
		if err := g.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			g.logger.Warn("failed to release session lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}, nil
}
