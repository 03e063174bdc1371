package prompt

import "strings"

// Occasion tags accepted by the analyze flow.
const (
	OccasionCasual = "casual"
	OccasionWork   = "work"
	OccasionDate   = "date"
	OccasionParty  = "party"
	OccasionGym    = "gym"
	OccasionChurch = "church"
)

// GeneralOccasion is shown when no occasion was chosen.
const GeneralOccasion = "General"

var occasionLabels = map[string]string{
	OccasionCasual: "Casual Outing / Daily",
	OccasionWork:   "Professional Work / Office",
	OccasionDate:   "Romantic Date / Date Night",
	OccasionParty:  "Party / Social Event",
	OccasionGym:    "Gym / Workout",
	OccasionChurch: "Church / Religious Event",
}

// OccasionLabel returns the display text for an occasion tag. Unknown tags
// pass through verbatim; an empty tag is "General".
func OccasionLabel(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return GeneralOccasion
	}
	if label, ok := occasionLabels[strings.ToLower(tag)]; ok {
		return label
	}
	return tag
}

// KnownOccasion reports whether tag is one of the enumerated occasions.
func KnownOccasion(tag string) bool {
	_, ok := occasionLabels[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}
