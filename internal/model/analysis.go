package model

import (
	"time"
)

// AnalysisResult is the canonical output of one model invocation.
// ChatResponse is always display-ready prose.
type AnalysisResult struct {
	Score         float64 `json:"score"`
	ChatResponse  string  `json:"chat_response"`
	ShoppingQuery *string `json:"shopping_query"`
}

// AnalyzeRequest is the JSON form of an analysis request. Multipart uploads
// carry the same fields as form values plus an "image" file.
type AnalyzeRequest struct {
	SessionID       string `json:"session_id,omitempty"`
	Occasion        string `json:"occasion"`
	Image           string `json:"image"`
	WardrobeContext string `json:"wardrobe_context,omitempty"`
}

// AnalyzeResponse is returned to the caller after an outfit analysis.
type AnalyzeResponse struct {
	SessionID    string         `json:"session_id"`
	Analysis     AnalysisResult `json:"analysis"`
	ScoreVisible bool           `json:"score_visible"`
	ShoppingURL  string         `json:"shopping_url,omitempty"`
	OutfitLogID  string         `json:"outfit_log_id,omitempty"`
}

// FailureResponse is the body returned when the completion endpoint fails.
type FailureResponse struct {
	Error        string `json:"error"`
	ChatResponse string `json:"chat_response"`
	Retryable    bool   `json:"retryable"`
}

// OutfitLog records one analyzed outfit for the user's history.
type OutfitLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SessionID     string    `json:"session_id"`
	ImageURL      string    `json:"image_url,omitempty"`
	Occasion      string    `json:"occasion"`
	Score         float64   `json:"score"`
	Critique      string    `json:"critique"`
	ShoppingQuery *string   `json:"shopping_query,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListOutfitLogsResponse is the response for the outfit history.
type ListOutfitLogsResponse struct {
	Outfits []OutfitLog `json:"outfits"`
}
