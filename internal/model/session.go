// Package model defines data structures for the stylist platform.
package model

import (
	"time"
)

// Session is an ordered conversation thread about one outfit.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Occasion  string    `json:"occasion,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionState is the coarse lifecycle position of a session.
type SessionState string

const (
	StateNoImage          SessionState = "no_image"
	StateImageUploaded    SessionState = "image_uploaded"
	StateOccasionSelected SessionState = "occasion_selected"
	StateAnalyzed         SessionState = "analyzed"
	StateChatting         SessionState = "chatting"
)

// OriginalImage returns the image of the first image-bearing user turn.
// turns must be ordered oldest first.
func OriginalImage(turns []Turn) *ImageRef {
	for _, t := range turns {
		if t.Role == RoleUser && t.HasImage() {
			return t.Image()
		}
	}
	return nil
}

// DeriveState computes the session state from its stored turns.
func DeriveState(s *Session, turns []Turn) SessionState {
	hasImage := OriginalImage(turns) != nil
	replies := 0
	for _, t := range turns {
		if t.Role == RoleAssistant {
			replies++
		}
	}

	switch {
	case replies > 1:
		return StateChatting
	case replies == 1 && hasImage:
		return StateAnalyzed
	case replies == 1:
		return StateChatting
	case !hasImage:
		return StateNoImage
	case s != nil && s.Occasion != "":
		return StateOccasionSelected
	default:
		return StateImageUploaded
	}
}

// SessionView is a session together with its turns.
type SessionView struct {
	Session
	State         SessionState `json:"state"`
	OriginalImage string       `json:"original_image,omitempty"`
	Turns         []Turn       `json:"turns"`
}

// ListSessionsResponse is the response for listing sessions.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}
