package model

import (
	"time"
)

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one immutable exchange unit within a session.
type Turn struct {
	// Identity
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`

	// Content
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`

	// Analysis metadata (assistant turns only)
	Score         *float64 `json:"score,omitempty"`
	ShoppingQuery *string  `json:"shopping_query,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Store metadata (populated on read)
	Sequence uint64 `json:"sequence,omitempty"`
}

// Image returns the turn's image reference, or nil.
func (t Turn) Image() *ImageRef {
	return NewImageRef(t.ImageURL)
}

// HasImage reports whether the turn carries an image.
func (t Turn) HasImage() bool {
	return t.ImageURL != ""
}

// SendMessageRequest is the request body for a chat turn.
type SendMessageRequest struct {
	Message  string `json:"message"`
	Occasion string `json:"occasion,omitempty"`
	// NewImage is a photo attached to this turn.
	NewImage string `json:"new_image,omitempty"`
	// Image is the original outfit photo, used when the session has none stored.
	Image string `json:"image,omitempty"`
}

// ChatResponse is the client-facing result of a chat turn.
type ChatResponse struct {
	SessionID     string   `json:"session_id"`
	Response      string   `json:"response"`
	Score         *float64 `json:"score"`
	ScoreVisible  bool     `json:"score_visible"`
	ShoppingQuery *string  `json:"shopping_query"`
	ShoppingURL   string   `json:"shopping_url,omitempty"`
	Turn          *Turn    `json:"turn,omitempty"`
}

// ListTurnsResponse is the response for listing a session's turns.
type ListTurnsResponse struct {
	Turns        []Turn `json:"turns"`
	LastSequence uint64 `json:"last_sequence"`
}

// ErrorEvent represents an error pushed over SSE.
type ErrorEvent struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// HeartbeatEvent keeps an SSE connection alive.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}
