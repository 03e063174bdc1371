package model

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTurnInFlight    = errors.New("a turn is already being processed for this session")
	ErrForbidden       = errors.New("session belongs to another user")
	ErrInvalidImage    = errors.New("invalid image")
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrNotFound        = errors.New("not found")

	ErrMissingDescription  = errors.New("wardrobe item needs a description or an image to describe")
	ErrInvalidMeasurements = errors.New("height, bust, waist and hip must be positive")
	ErrMissingPhotos       = errors.New("front, side and face photos are required")
)
