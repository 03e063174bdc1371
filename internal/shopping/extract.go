// Package shopping pulls a product search phrase out of stylist advice and
// turns it into a retailer search link.
package shopping

// Match is a successful extraction.
type Match struct {
	Rule  string
	Query string
}

// Find returns the phrase produced by the first rule that matches text.
func Find(text string) (Match, bool) {
	if text == "" {
		return Match{}, false
	}
	text = discard.ReplaceAllString(text, " ${1}")
	for _, r := range Rules {
		if q, ok := r.Apply(text); ok {
			return Match{Rule: r.Name, Query: q}, true
		}
	}
	return Match{}, false
}

// Extract returns the shopping query for text, if any.
func Extract(text string) (string, bool) {
	m, ok := Find(text)
	return m.Query, ok
}

// QueryPtr is Extract returning nil when nothing matched.
func QueryPtr(text string) *string {
	if q, ok := Extract(text); ok {
		return &q
	}
	return nil
}
