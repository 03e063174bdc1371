package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gia-fashion/stylist-platform/internal/prompt"
)

// MaxMessageLength bounds a chat message in bytes.
const MaxMessageLength = 4000

// ValidateMessageContent validates chat message text. Empty text is allowed
// here; the chat service decides whether an image can stand in for it.
func ValidateMessageContent(content string) error {
	if len(content) > MaxMessageLength {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateOccasion accepts an empty occasion, one of the known tags, or a
// short free-text label.
func ValidateOccasion(occasion string) error {
	if occasion == "" || prompt.KnownOccasion(occasion) {
		return nil
	}
	if len(occasion) > 64 {
		return errors.New("occasion exceeds maximum length")
	}
	if !utf8.ValidString(occasion) {
		return errors.New("occasion must be valid UTF-8")
	}
	return nil
}
