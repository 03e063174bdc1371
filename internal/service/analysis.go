package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/normalize"
	"github.com/gia-fashion/stylist-platform/internal/prompt"
	"github.com/gia-fashion/stylist-platform/internal/shopping"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
	"github.com/gia-fashion/stylist-platform/pkg/tracing"
)

// AnalyzeInput is one outfit photo to critique.
type AnalyzeInput struct {
	UserID string
	// SessionID continues an existing session; empty starts a new one.
	SessionID string
	Occasion  string
	Image     *model.ImageRef
	// WardrobeContext overrides the wardrobe block built from stored items.
	WardrobeContext string
}

// AnalysisService critiques outfit photos.
type AnalysisService struct {
	sessions  *SessionService
	wardrobe  store.WardrobeStore
	outfits   store.OutfitLogStore
	events    events
	llmClient llm.Client
	guard     *InFlightGuard
	model     string
	amazonTag string
	logger    *logger.Logger
}

// AnalysisDeps are the collaborators of an AnalysisService.
type AnalysisDeps struct {
	Sessions  *SessionService
	Wardrobe  store.WardrobeStore
	Outfits   store.OutfitLogStore
	Events    store.EventPublisher
	LLM       llm.Client
	Guard     *InFlightGuard
	Model     string
	AmazonTag string
	Logger    *logger.Logger
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(d AnalysisDeps) *AnalysisService {
	return &AnalysisService{
		sessions:  d.Sessions,
		wardrobe:  d.Wardrobe,
		outfits:   d.Outfits,
		events:    events{pub: d.Events, logger: d.Logger},
		llmClient: d.LLM,
		guard:     d.Guard,
		model:     d.Model,
		amazonTag: d.AmazonTag,
		logger:    d.Logger,
	}
}

// Analyze scores an outfit photo and stores the exchange as the first turns
// of the session. The score of a first analysis is always visible.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (*model.AnalyzeResponse, error) {
	ctx, span := tracing.Start(ctx, "analysis.analyze", attribute.String("occasion", in.Occasion))
	defer span.End()

	if in.Image == nil || !in.Image.Valid() {
		return nil, model.ErrInvalidImage
	}

	sess, err := s.session(ctx, in)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("session_id", sess.ID))
	log := s.logger.WithSession(sess.ID)

	release, err := s.guard.Acquire(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	occasion := in.Occasion
	if occasion == "" {
		occasion = sess.Occasion
	}

	req := &llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Parts: []llm.Part{
				llm.TextPart(prompt.BuildAnalysisPrompt(occasion, s.wardrobeContext(ctx, in))),
				llm.ImagePart(in.Image.URL),
			},
		}},
		MaxTokens:   analysisMaxTokens,
		Temperature: temperature,
	}

	resp, err := s.llmClient.Complete(ctx, req)
	if err != nil {
		s.events.failure(ctx, sess.ID, in.UserID, err)
		log.Error("outfit analysis failed", zap.Error(err))
		return nil, fail(span, fmt.Errorf("analyze outfit: %w", err))
	}

	out := normalize.Parse(resp.Content)
	metrics.NormalizationTotal.WithLabelValues(out.Path).Inc()
	if out.ChatResponse == "" {
		s.events.failure(ctx, sess.ID, in.UserID, llm.ErrMalformedResponse)
		return nil, fail(span, fmt.Errorf("analyze outfit: %w", llm.ErrMalformedResponse))
	}
	if out.ShoppingQuery != nil {
		recordShopping(out.ChatResponse, out.ShoppingQuery)
	}

	userTurn := &model.Turn{
		SessionID: sess.ID,
		UserID:    in.UserID,
		Role:      model.RoleUser,
		Content:   "Outfit photo for " + prompt.OccasionLabel(occasion),
		ImageURL:  in.Image.URL,
	}
	if err := s.sessions.appendTurn(ctx, userTurn); err != nil {
		return nil, fail(span, err)
	}

	score := out.Score
	assistantTurn := &model.Turn{
		SessionID:     sess.ID,
		UserID:        in.UserID,
		Role:          model.RoleAssistant,
		Content:       out.ChatResponse,
		Score:         &score,
		ShoppingQuery: out.ShoppingQuery,
	}
	if err := s.sessions.appendTurn(ctx, assistantTurn); err != nil {
		return nil, fail(span, err)
	}

	outfit := &model.OutfitLog{
		ID:            newID(),
		UserID:        in.UserID,
		SessionID:     sess.ID,
		ImageURL:      in.Image.URL,
		Occasion:      occasion,
		Score:         out.Score,
		Critique:      out.ChatResponse,
		ShoppingQuery: out.ShoppingQuery,
		CreatedAt:     assistantTurn.CreatedAt,
	}
	if err := s.outfits.SaveOutfitLog(ctx, outfit); err != nil {
		log.Warn("failed to save outfit log", zap.Error(err))
		outfit.ID = ""
	}

	s.sessions.touch(ctx, sess, occasion)
	s.events.publish(ctx, sess.ID, in.UserID, model.EventTypeAnalysisCompleted, "", map[string]any{
		"score":     out.Score,
		"path":      out.Path,
		"tokens_in": resp.TokensIn,
	})
	metrics.RecordScoreDecision(true)

	result := &model.AnalyzeResponse{
		SessionID:    sess.ID,
		Analysis:     out.AnalysisResult,
		ScoreVisible: true,
		OutfitLogID:  outfit.ID,
	}
	if out.ShoppingQuery != nil {
		result.ShoppingURL = shopping.Link(*out.ShoppingQuery, s.amazonTag)
	}

	log.Info("outfit analyzed", zap.Float64("score", out.Score), zap.String("path", out.Path))
	return result, nil
}

// History returns the user's analyzed outfits, newest first.
func (s *AnalysisService) History(ctx context.Context, userID string, limit int) (*model.ListOutfitLogsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	logs, err := s.outfits.ListOutfitLogs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfit history: %w", err)
	}
	if logs == nil {
		logs = []model.OutfitLog{}
	}
	return &model.ListOutfitLogsResponse{Outfits: logs}, nil
}

func (s *AnalysisService) session(ctx context.Context, in AnalyzeInput) (*model.Session, error) {
	if in.SessionID != "" {
		return s.sessions.Get(ctx, in.UserID, in.SessionID)
	}
	return s.sessions.Start(ctx, in.UserID, in.Occasion)
}

func (s *AnalysisService) wardrobeContext(ctx context.Context, in AnalyzeInput) string {
	if in.WardrobeContext != "" || s.wardrobe == nil {
		return in.WardrobeContext
	}
	items, err := s.wardrobe.ListWardrobe(ctx, in.UserID, prompt.MaxWardrobeItems)
	if err != nil {
		s.logger.Warn("failed to load wardrobe", zap.String("user_id", in.UserID), zap.Error(err))
		return ""
	}
	return prompt.FormatWardrobe(items)
}

// recordShopping counts which extraction rule produced the query, or
// "declared" when the model named the item itself.
func recordShopping(text string, query *string) {
	rule := "declared"
	if m, ok := shopping.Find(text); ok && m.Query == *query {
		rule = m.Rule
	}
	metrics.ShoppingQueriesTotal.WithLabelValues(rule).Inc()
}
