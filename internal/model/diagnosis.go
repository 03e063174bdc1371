package model

import (
	"time"
)

// BodyMeasurements are the user-supplied measurements.
type BodyMeasurements struct {
	HeightCM float64  `json:"height_cm"`
	BustCM   float64  `json:"bust_cm"`
	WaistCM  float64  `json:"waist_cm"`
	HipCM    float64  `json:"hip_cm"`
	WeightKG *float64 `json:"weight_kg,omitempty"`
}

// HeightCategory buckets height for garment-length advice.
func (m BodyMeasurements) HeightCategory() string {
	switch {
	case m.HeightCM < 160:
		return "petite"
	case m.HeightCM > 170:
		return "tall"
	default:
		return "regular"
	}
}

// StyleDiagnosisRequest asks for a body-shape, face-shape and colour guide.
type StyleDiagnosisRequest struct {
	BodyMeasurements
	PhotoFrontURL string `json:"photo_front_url"`
	PhotoSideURL  string `json:"photo_side_url"`
	PhotoFaceURL  string `json:"photo_face_url"`
}

// StyleDiagnosis is the structured guide returned by the model.
type StyleDiagnosis struct {
	UserID string `json:"user_id,omitempty"`

	BodyType               string   `json:"body_type"`
	BodyTypeDescription    string   `json:"body_type_description"`
	RecommendedClothing    []string `json:"recommended_clothing"`
	AvoidClothing          []string `json:"avoid_clothing"`
	FaceShape              string   `json:"face_shape"`
	FaceShapeDescription   string   `json:"face_shape_description"`
	RecommendedHairstyles  []string `json:"recommended_hairstyles"`
	RecommendedAccessories []string `json:"recommended_accessories"`
	MakeupTips             string   `json:"makeup_tips"`
	ColorSeason            string   `json:"color_season"`
	ColorSeasonSubtype     string   `json:"color_season_subtype"`
	PowerColors            []string `json:"power_colors"`
	AvoidColors            []string `json:"avoid_colors"`

	Measurements BodyMeasurements `json:"measurements"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
