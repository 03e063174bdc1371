package model

import (
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventTypeAnalysisCompleted EventType = "analysis_completed"
	EventTypeChatCompleted     EventType = "chat_completed"
	EventTypeUpstreamError     EventType = "upstream_error"
	EventTypeTimeout           EventType = "timeout"
)

// SessionEvent is an out-of-band notification about a session.
type SessionEvent struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	Type      EventType      `json:"type"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Sequence  uint64         `json:"sequence,omitempty"`
}
