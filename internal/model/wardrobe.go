package model

import (
	"time"
)

// WardrobeItem is a garment the user owns.
type WardrobeItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description"`
	ColorTags   []string  `json:"color_tags,omitempty"`
	StyleTags   []string  `json:"style_tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddWardrobeItemRequest adds an item; an empty description with Describe set
// asks the model to write one from the photo.
type AddWardrobeItemRequest struct {
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	ColorTags   []string `json:"color_tags,omitempty"`
	StyleTags   []string `json:"style_tags,omitempty"`
	Describe    bool     `json:"describe,omitempty"`
}

// DescribeItemRequest asks for a catalog description of a single garment.
type DescribeItemRequest struct {
	Image string `json:"image"`
}

// DescribeItemResponse carries the generated description.
type DescribeItemResponse struct {
	Description string `json:"description"`
}

// ListWardrobeResponse is the response for listing wardrobe items.
type ListWardrobeResponse struct {
	Items []WardrobeItem `json:"items"`
}
