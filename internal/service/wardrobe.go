package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/normalize"
	"github.com/gia-fashion/stylist-platform/internal/prompt"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// WardrobeService manages the user's garments.
type WardrobeService struct {
	store     store.WardrobeStore
	llmClient llm.Client
	model     string
	logger    *logger.Logger
}

// NewWardrobeService creates a new wardrobe service.
func NewWardrobeService(st store.WardrobeStore, client llm.Client, modelName string, log *logger.Logger) *WardrobeService {
	return &WardrobeService{store: st, llmClient: client, model: modelName, logger: log}
}

// Add stores a wardrobe item, describing its photo first when asked to.
func (s *WardrobeService) Add(ctx context.Context, userID string, req *model.AddWardrobeItemRequest) (*model.WardrobeItem, error) {
	desc := strings.TrimSpace(req.Description)
	img := model.NewImageRef(req.ImageURL)
	if img != nil && !img.Valid() {
		return nil, model.ErrInvalidImage
	}

	if desc == "" {
		if img == nil || !req.Describe {
			return nil, model.ErrMissingDescription
		}
		var err error
		if desc, err = s.Describe(ctx, img); err != nil {
			return nil, err
		}
	}

	item := &model.WardrobeItem{
		ID:          newID(),
		UserID:      userID,
		ImageURL:    req.ImageURL,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: desc,
		ColorTags:   cleanTags(req.ColorTags),
		StyleTags:   cleanTags(req.StyleTags),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.AddWardrobeItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add wardrobe item: %w", err)
	}

	s.logger.Info("wardrobe item added", zap.String("user_id", userID), zap.String("item_id", item.ID))
	return item, nil
}

// List returns the user's items, newest first.
func (s *WardrobeService) List(ctx context.Context, userID string, limit int) (*model.ListWardrobeResponse, error) {
	items, err := s.store.ListWardrobe(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wardrobe: %w", err)
	}
	if items == nil {
		items = []model.WardrobeItem{}
	}
	return &model.ListWardrobeResponse{Items: items}, nil
}

// Describe asks the model for a catalog description of one garment photo.
func (s *WardrobeService) Describe(ctx context.Context, img *model.ImageRef) (string, error) {
	if img == nil || !img.Valid() {
		return "", model.ErrInvalidImage
	}

	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{{
			Role:  llm.RoleUser,
			Parts: []llm.Part{llm.TextPart(prompt.DescribeItemPrompt), llm.ImagePart(img.URL)},
		}},
		MaxTokens: describeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("describe item: %w", err)
	}

	desc := normalize.Sanitize(resp.Content)
	if desc == "" {
		return "", fmt.Errorf("describe item: %w", llm.ErrMalformedResponse)
	}
	return desc, nil
}

func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
