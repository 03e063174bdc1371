package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gia-fashion/stylist-platform/internal/model"
)

func TestOccasionLabel(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"casual", "Casual Outing / Daily"},
		{"work", "Professional Work / Office"},
		{"date", "Romantic Date / Date Night"},
		{"party", "Party / Social Event"},
		{"gym", "Gym / Workout"},
		{"church", "Church / Religious Event"},
		{"Church", "Church / Religious Event"},
		{"beach wedding", "beach wedding"},
		{"", "General"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			require.Equal(t, tt.want, OccasionLabel(tt.tag))
		})
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	p := BuildAnalysisPrompt("date", "")

	require.Contains(t, p, `OCCASION: "Romantic Date / Date Night"`)
	require.Contains(t, p, "Not provided")
	require.Contains(t, p, "Start with **Score: X/10**")
	require.Contains(t, p, "never JSON")
	require.Contains(t, p, "Styling before shopping")
	require.NotContains(t, p, "{occasion}")
	require.NotContains(t, p, "{wardrobe}")
}

func TestBuildAnalysisPrompt_UnknownOccasionAndWardrobe(t *testing.T) {
	wardrobe := "ITEM-001: Camel wool coat"
	p := BuildAnalysisPrompt("graduation", wardrobe)

	require.Contains(t, p, `OCCASION: "graduation"`)
	require.Contains(t, p, wardrobe)
	require.NotContains(t, p, "Not provided")
}

func TestBuildAnalysisPrompt_Pure(t *testing.T) {
	require.Equal(t, BuildAnalysisPrompt("work", "x"), BuildAnalysisPrompt("work", "x"))
}

func TestBuildChatPrompt(t *testing.T) {
	p := BuildChatPrompt("gym")
	require.Contains(t, p, "OCCASION: GYM / WORKOUT")
	require.Contains(t, p, "analyze it for Gym / Workout")
	require.NotContains(t, p, "{occasion")

	require.Contains(t, BuildChatPrompt(""), "OCCASION: GENERAL")
}

func TestFormatWardrobe(t *testing.T) {
	items := []model.WardrobeItem{
		{Description: "Black leather ankle boots with a block heel.", ColorTags: []string{"black"}, StyleTags: []string{"edgy", "casual"}},
		{Description: "Cream cable-knit sweater."},
	}

	got := FormatWardrobe(items)
	want := "ITEM-001: Black leather ankle boots with a block heel.\n   Colors: black | Style: edgy, casual\n\nITEM-002: Cream cable-knit sweater."
	require.Equal(t, want, got)
	require.Empty(t, FormatWardrobe(nil))
}

func TestFormatWardrobe_Caps(t *testing.T) {
	items := make([]model.WardrobeItem, MaxWardrobeItems+5)
	for i := range items {
		items[i].Description = "item"
	}
	got := FormatWardrobe(items)
	require.Equal(t, MaxWardrobeItems, strings.Count(got, "ITEM-"))
}

func TestBuildStyleDiagnosisPrompt(t *testing.T) {
	weight := 58.5
	p := BuildStyleDiagnosisPrompt(model.BodyMeasurements{
		HeightCM: 155, BustCM: 88, WaistCM: 70, HipCM: 100, WeightKG: &weight,
	})

	require.Contains(t, p, "Height: 155 cm (PETITE)")
	require.Contains(t, p, "Weight: 58.5 kg")
	require.Contains(t, p, "Bust/Waist: 1.26")
	require.Contains(t, p, "Hip/Waist: 1.43")
	require.Contains(t, p, "Bust/Hip: 0.88")
	require.Contains(t, p, `"body_type"`)

	p = BuildStyleDiagnosisPrompt(model.BodyMeasurements{HeightCM: 175})
	require.Contains(t, p, "(TALL)")
	require.Contains(t, p, "Bust/Waist: n/a")
	require.NotContains(t, p, "Weight:")
}
