package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/conversation"
	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/normalize"
	"github.com/gia-fashion/stylist-platform/internal/prompt"
	"github.com/gia-fashion/stylist-platform/internal/scoring"
	"github.com/gia-fashion/stylist-platform/internal/shopping"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
	"github.com/gia-fashion/stylist-platform/pkg/tracing"
)

const newPhotoText = "Here's a new photo."

// ChatInput is one follow-up turn.
type ChatInput struct {
	UserID    string
	SessionID string
	Message   string
	Occasion  string
	// NewImage is a photo attached to this turn.
	NewImage *model.ImageRef
	// Image is the original outfit, used only when the session has none.
	Image *model.ImageRef
}

// ChatService runs follow-up turns of a session.
type ChatService struct {
	sessions  *SessionService
	turns     store.TurnStore
	events    events
	llmClient llm.Client
	guard     *InFlightGuard
	model     string
	amazonTag string
	logger    *logger.Logger
}

// ChatDeps are the collaborators of a ChatService.
type ChatDeps struct {
	Sessions  *SessionService
	Turns     store.TurnStore
	Events    store.EventPublisher
	LLM       llm.Client
	Guard     *InFlightGuard
	Model     string
	AmazonTag string
	Logger    *logger.Logger
}

// NewChatService creates a new chat service.
func NewChatService(d ChatDeps) *ChatService {
	return &ChatService{
		sessions:  d.Sessions,
		turns:     d.Turns,
		events:    events{pub: d.Events, logger: d.Logger},
		llmClient: d.LLM,
		guard:     d.Guard,
		model:     d.Model,
		amazonTag: d.AmazonTag,
		logger:    d.Logger,
	}
}

// Send appends the user's turn, asks the model, and appends the reply.
// History is read before the user turn is stored, so the current turn is
// rendered by the assembler with its image labels.
func (s *ChatService) Send(ctx context.Context, in ChatInput) (*model.ChatResponse, error) {
	ctx, span := tracing.Start(ctx, "chat.send", attribute.String("session_id", in.SessionID))
	defer span.End()

	text := strings.TrimSpace(in.Message)
	if text == "" {
		if in.NewImage == nil {
			return nil, model.ErrEmptyMessage
		}
		text = newPhotoText
	}
	if in.NewImage != nil && !in.NewImage.Valid() {
		return nil, model.ErrInvalidImage
	}

	sess, err := s.sessions.Get(ctx, in.UserID, in.SessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	log := s.logger.WithSession(sess.ID)

	release, err := s.guard.Acquire(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	history, err := s.turns.ListTurns(ctx, sess.ID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to load history: %w", err))
	}

	stored := model.OriginalImage(history)
	original := stored
	if original == nil {
		original = in.Image
	}

	occasion := in.Occasion
	if occasion == "" {
		occasion = sess.Occasion
	}

	msgs := conversation.BuildMessages(prompt.BuildChatPrompt(occasion), history, text, original, in.NewImage)

	userTurn := &model.Turn{
		SessionID: sess.ID,
		UserID:    in.UserID,
		Role:      model.RoleUser,
		Content:   text,
	}
	if in.NewImage != nil {
		userTurn.ImageURL = in.NewImage.URL
	} else if stored == nil && in.Image != nil {
		// first image of the session arrives as caller-supplied context
		userTurn.ImageURL = in.Image.URL
	}
	if err := s.sessions.appendTurn(ctx, userTurn); err != nil {
		return nil, fail(span, err)
	}

	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   chatMaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.events.failure(ctx, sess.ID, in.UserID, err)
		log.Error("chat completion failed", zap.Error(err))
		return nil, fail(span, fmt.Errorf("chat turn: %w", err))
	}

	out := normalize.Parse(resp.Content)
	metrics.NormalizationTotal.WithLabelValues(out.Path).Inc()
	if out.ChatResponse == "" {
		s.events.failure(ctx, sess.ID, in.UserID, llm.ErrMalformedResponse)
		return nil, fail(span, fmt.Errorf("chat turn: %w", llm.ErrMalformedResponse))
	}
	if out.ShoppingQuery != nil {
		recordShopping(out.ChatResponse, out.ShoppingQuery)
	}

	extracted := scoring.ScorePtr(out.ChatResponse)
	firstImage := in.NewImage != nil && stored == nil
	visible := scoring.ShouldShowScore(text, firstImage, extracted)
	metrics.RecordScoreDecision(visible)

	assistantTurn := &model.Turn{
		SessionID:     sess.ID,
		UserID:        in.UserID,
		Role:          model.RoleAssistant,
		Content:       out.ChatResponse,
		Score:         extracted,
		ShoppingQuery: out.ShoppingQuery,
	}
	if err := s.sessions.appendTurn(ctx, assistantTurn); err != nil {
		return nil, fail(span, err)
	}

	s.sessions.touch(ctx, sess, in.Occasion)
	s.events.publish(ctx, sess.ID, in.UserID, model.EventTypeChatCompleted, "", map[string]any{
		"score_visible": visible,
		"path":          out.Path,
		"new_image":     in.NewImage != nil,
	})

	result := &model.ChatResponse{
		SessionID:     sess.ID,
		Response:      out.ChatResponse,
		ScoreVisible:  visible,
		ShoppingQuery: out.ShoppingQuery,
		Turn:          assistantTurn,
	}
	if visible {
		result.Score = extracted
	}
	if out.ShoppingQuery != nil {
		result.ShoppingURL = shopping.Link(*out.ShoppingQuery, s.amazonTag)
	}

	log.Info("chat turn completed", zap.Bool("score_visible", visible), zap.String("path", out.Path))
	return result, nil
}
