package scoring

import "regexp"

// English and Spanish requests to rate or re-evaluate.
var ratingRequest = regexp.MustCompile(`(?i)\b(?:rate[sd]?|rating|score[sd]?|grade|judge|judging|evaluate|evaluation|califica\w*|punt[uú]a|eval[uú]a|nota)\b`)

// IsRatingRequest reports whether the user explicitly asked for a score.
func IsRatingRequest(userText string) bool {
	return ratingRequest.MatchString(userText)
}

// ShouldShowScore gates an already-extracted score. The score is shown only
// for the first analysis of an image or when the user asked for a rating,
// and never when no score was extracted.
func ShouldShowScore(userText string, isFirstImageAnalysis bool, extractedScore *float64) bool {
	if extractedScore == nil {
		return false
	}
	return isFirstImageAnalysis || IsRatingRequest(userText)
}
