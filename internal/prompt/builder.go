// Package prompt builds the instruction text sent to the vision model.
package prompt

import (
	"strconv"
	"strings"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

const noWardrobe = "Not provided"

// BuildAnalysisPrompt returns the full instruction for scoring an outfit photo.
func BuildAnalysisPrompt(occasion, wardrobeContext string) string {
	wardrobe := strings.TrimSpace(wardrobeContext)
	if wardrobe == "" {
		wardrobe = noWardrobe
	}
	return strings.NewReplacer(
		"{occasion}", OccasionLabel(occasion),
		"{wardrobe}", wardrobe,
	).Replace(analysisTemplate)
}

// BuildChatPrompt returns the system prompt for follow-up conversation turns.
func BuildChatPrompt(occasion string) string {
	label := OccasionLabel(occasion)
	return strings.NewReplacer(
		"{occasion_upper}", strings.ToUpper(label),
		"{occasion}", label,
	).Replace(chatTemplate)
}

// BuildStyleDiagnosisPrompt returns the instruction for a body, face and colour
// diagnosis. Ratios are omitted when a denominator is missing.
func BuildStyleDiagnosisPrompt(m model.BodyMeasurements) string {
	weight := ""
	if m.WeightKG != nil && *m.WeightKG > 0 {
		weight = "\n- Weight: " + formatFloat(*m.WeightKG) + " kg"
	}
	return strings.NewReplacer(
		"{height}", formatFloat(m.HeightCM),
		"{height_category}", strings.ToUpper(m.HeightCategory()),
		"{bust}", formatFloat(m.BustCM),
		"{waist}", formatFloat(m.WaistCM),
		"{hip}", formatFloat(m.HipCM),
		"{weight}", weight,
		"{bust_waist}", ratio(m.BustCM, m.WaistCM),
		"{hip_waist}", ratio(m.HipCM, m.WaistCM),
		"{bust_hip}", ratio(m.BustCM, m.HipCM),
	).Replace(diagnosisTemplate)
}

func ratio(a, b float64) string {
	if b == 0 {
		return "n/a"
	}
	return strconv.FormatFloat(a/b, 'f', 2, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
