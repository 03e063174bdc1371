package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/llm"
	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/prompt"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// DiagnosisService produces the body-shape, face-shape and colour guide.
type DiagnosisService struct {
	store     store.DiagnosisStore
	llmClient llm.Client
	model     string
	logger    *logger.Logger
}

// NewDiagnosisService creates a new diagnosis service.
func NewDiagnosisService(st store.DiagnosisStore, client llm.Client, modelName string, log *logger.Logger) *DiagnosisService {
	return &DiagnosisService{store: st, llmClient: client, model: modelName, logger: log}
}

// Diagnose runs a style diagnosis from measurements and three photos and
// stores it as the user's current diagnosis.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID string, req *model.StyleDiagnosisRequest) (*model.StyleDiagnosis, error) {
	m := req.BodyMeasurements
	if m.HeightCM <= 0 || m.BustCM <= 0 || m.WaistCM <= 0 || m.HipCM <= 0 {
		return nil, model.ErrInvalidMeasurements
	}

	parts := []llm.Part{llm.TextPart(prompt.BuildStyleDiagnosisPrompt(m))}
	for _, url := range []string{req.PhotoFrontURL, req.PhotoSideURL, req.PhotoFaceURL} {
		img := model.NewImageRef(url)
		if img == nil {
			return nil, model.ErrMissingPhotos
		}
		if !img.Valid() {
			return nil, model.ErrInvalidImage
		}
		parts = append(parts, llm.ImagePart(img.URL))
	}

	resp, err := s.llmClient.Complete(ctx, &llm.CompletionRequest{
		Model:          s.model,
		Messages:       []llm.Message{{Role: llm.RoleUser, Parts: parts}},
		MaxTokens:      diagnosisMaxTokens,
		Temperature:    temperature,
		ResponseFormat: llm.ResponseFormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("style diagnosis: %w", err)
	}

	d, err := decodeDiagnosis(resp.Content)
	if err != nil {
		s.logger.Warn("undecodable style diagnosis", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("style diagnosis: %w", llm.ErrMalformedResponse)
	}
	d.UserID = userID
	d.Measurements = m
	d.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveDiagnosis(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save diagnosis: %w", err)
	}
	return d, nil
}

// Get returns the user's stored diagnosis.
func (s *DiagnosisService) Get(ctx context.Context, userID string) (*model.StyleDiagnosis, error) {
	return s.store.GetDiagnosis(ctx, userID)
}

// decodeDiagnosis reads the JSON object in content, tolerating code fences
// or prose around it.
func decodeDiagnosis(content string) (*model.StyleDiagnosis, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var d model.StyleDiagnosis
	if err := json.Unmarshal([]byte(content[start:end+1]), &d); err != nil {
		return nil, err
	}
	if d.BodyType == "" && d.ColorSeason == "" && d.FaceShape == "" {
		return nil, fmt.Errorf("diagnosis has no findings")
	}
	return &d, nil
}
