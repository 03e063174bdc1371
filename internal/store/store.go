// Package store defines the persistence ports used by the services and an
// in-memory implementation of all of them.
package store

import (
	"context"
	"time"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

// TurnStore is the append-only turn log of a session.
type TurnStore interface {
	// AppendTurn stores the turn and sets its Sequence.
	AppendTurn(ctx context.Context, turn *model.Turn) (uint64, error)
	// ListTurns returns the session's turns oldest first.
	ListTurns(ctx context.Context, sessionID string) ([]model.Turn, error)
}

// SessionStore keeps session metadata.
type SessionStore interface {
	SaveSession(ctx context.Context, s *model.Session) error
	// GetSession returns model.ErrSessionNotFound for unknown ids.
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// ListSessions returns a user's sessions, most recently updated first,
	// and the total count.
	ListSessions(ctx context.Context, userID string, limit, offset int) ([]model.Session, int, error)
}

// WardrobeStore keeps the user's garments.
type WardrobeStore interface {
	AddWardrobeItem(ctx context.Context, item *model.WardrobeItem) error
	// ListWardrobe returns newest items first. limit <= 0 means no limit.
	ListWardrobe(ctx context.Context, userID string, limit int) ([]model.WardrobeItem, error)
}

// OutfitLogStore keeps analyzed outfits.
type OutfitLogStore interface {
	SaveOutfitLog(ctx context.Context, log *model.OutfitLog) error
	// ListOutfitLogs returns newest entries first. limit <= 0 means no limit.
	ListOutfitLogs(ctx context.Context, userID string, limit int) ([]model.OutfitLog, error)
}

// DiagnosisStore keeps the latest style diagnosis per user.
type DiagnosisStore interface {
	SaveDiagnosis(ctx context.Context, d *model.StyleDiagnosis) error
	// GetDiagnosis returns model.ErrNotFound when the user has none.
	GetDiagnosis(ctx context.Context, userID string) (*model.StyleDiagnosis, error)
}

// EventPublisher emits session events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.SessionEvent) (uint64, error)
}

// Locker grants short-lived exclusive keys.
type Locker interface {
	// Acquire returns false when the key is held and not yet expired.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Repository bundles the stores a deployment provides.
type Repository interface {
	TurnStore
	SessionStore
	WardrobeStore
	OutfitLogStore
	DiagnosisStore
	EventPublisher
	Locker
}
