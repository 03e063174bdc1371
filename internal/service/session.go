package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
)

// SessionService handles session metadata and turn history.
type SessionService struct {
	sessions store.SessionStore
	turns    store.TurnStore
	logger   *logger.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(sessions store.SessionStore, turns store.TurnStore, log *logger.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		turns:    turns,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start creates a new session for userID.
func (s *SessionService) Start(ctx context.Context, userID, occasion string) (*model.Session, error) {
	now := s.now()
	sess := &model.Session{
		ID:        newID(),
		UserID:    userID,
		Occasion:  occasion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	metrics.SessionsTotal.Inc()
	s.logger.Info("session created", zap.String("session_id", sess.ID), zap.String("user_id", userID))
	return sess, nil
}

// Get returns the session when it belongs to userID. Sessions of other users
// are reported as not found.
func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

// View returns a session with its turns and derived state.
func (s *SessionService) View(ctx context.Context, userID, sessionID string) (*model.SessionView, error) {
	sess, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	turns, err := s.turns.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	view := &model.SessionView{
		Session: *sess,
		State:   model.DeriveState(sess, turns),
		Turns:   turns,
	}
	if img := model.OriginalImage(turns); img != nil {
		view.OriginalImage = img.URL
	}
	return view, nil
}

// List returns a page of the user's sessions.
func (s *SessionService) List(ctx context.Context, userID string, limit, offset int) (*model.ListSessionsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	sessions, total, err := s.sessions.ListSessions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []model.Session{}
	}

	return &model.ListSessionsResponse{
		Sessions: sessions,
		Total:    total,
		HasMore:  offset+len(sessions) < total,
	}, nil
}

// Turns returns the session's turns with a sequence greater than after.
func (s *SessionService) Turns(ctx context.Context, userID, sessionID string, after uint64) (*model.ListTurnsResponse, error) {
	if _, err := s.Get(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	all, err := s.turns.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	resp := &model.ListTurnsResponse{Turns: []model.Turn{}, LastSequence: after}
	for _, t := range all {
		if t.Sequence <= after {
			continue
		}
		resp.Turns = append(resp.Turns, t)
		if t.Sequence > resp.LastSequence {
			resp.LastSequence = t.Sequence
		}
	}
	return resp, nil
}

// appendTurn stores a turn with a fresh id and timestamp.
func (s *SessionService) appendTurn(ctx context.Context, turn *model.Turn) error {
	turn.ID = newID()
	turn.CreatedAt = s.now()
	if _, err := s.turns.AppendTurn(ctx, turn); err != nil {
		return fmt.Errorf("failed to append %s turn: %w", turn.Role, err)
	}
	metrics.TurnsTotal.WithLabelValues(string(turn.Role)).Inc()
	return nil
}

// touch records activity on the session and updates its occasion.
func (s *SessionService) touch(ctx context.Context, sess *model.Session, occasion string) {
	if occasion != "" {
		sess.Occasion = occasion
	}
	sess.UpdatedAt = s.now()
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		s.logger.Warn("failed to update session", zap.String("session_id", sess.ID), zap.Error(err))
	}
}
