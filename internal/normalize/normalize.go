// Package normalize turns raw completion text into a model.AnalysisResult.
// It never fails: ambiguous output degrades to the raw text with the default
// score.
package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/scoring"
	"github.com/gia-fashion/stylist-platform/internal/shopping"
)

// Path names which parse attempt produced a result.
const (
	PathJSON  = "json"
	PathProse = "prose"
	PathRaw   = "raw"
)

const maxNestedDepth = 3

var (
	chatKeys     = []string{"chat_response", "analysis", "critique", "response"}
	shoppingKeys = []string{"suggested_item_search", "shopping_query"}

	declaredShopping = regexp.MustCompile(`"(?:suggested_item_search|shopping_query)"\s*:\s*"((?:[^"\\]|\\.)+)"`)
)

// Outcome is a normalized result plus the parse path that produced it.
type Outcome struct {
	model.AnalysisResult
	Path string
}

type candidate struct {
	chat     string
	score    *float64
	shopping string
}

type attempt struct {
	path string
	try  func(raw string) (candidate, bool)
}

var chain = []attempt{
	{PathJSON, tryParseJSONObject},
	{PathProse, tryExtractScoreFromProse},
}

// Normalize returns the canonical result for raw model output.
func Normalize(raw string) model.AnalysisResult {
	return Parse(raw).AnalysisResult
}

// Parse is Normalize reporting the parse path.
func Parse(raw string) Outcome {
	c, path := fallbackRaw(raw), PathRaw
	for _, a := range chain {
		if got, ok := a.try(raw); ok {
			c, path = got, a.path
			break
		}
	}

	out := Outcome{Path: path}
	out.ChatResponse = Sanitize(c.chat)

	out.Score = scoring.DefaultScore
	if c.score != nil {
		out.Score = scoring.Round(*c.score)
	}

	if q := strings.TrimSpace(c.shopping); q != "" {
		out.ShoppingQuery = &q
	} else {
		out.ShoppingQuery = shopping.QueryPtr(out.ChatResponse)
	}

	return out
}

// tryParseJSONObject decodes the span between the first "{" and the last "}".
func tryParseJSONObject(raw string) (candidate, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return candidate{}, false
	}

	obj, ok := decodeObject(raw[start : end+1])
	if !ok {
		return candidate{}, false
	}
	c, ok := fromObject(obj)
	if !ok {
		return candidate{}, false
	}
	if c.chat == "" {
		// Fields without prose: the text around the object is the reply.
		c.chat = strings.TrimSpace(raw[:start] + " " + raw[end+1:])
	}

	// Models sometimes return the whole payload again as the chat string.
	for depth := 0; depth < maxNestedDepth; depth++ {
		inner := strings.TrimSpace(c.chat)
		if !strings.HasPrefix(inner, "{") {
			break
		}
		nestedObj, ok := decodeObject(inner)
		if !ok {
			break
		}
		nested, ok := fromObject(nestedObj)
		if !ok {
			break
		}
		c.chat = nested.chat
		if nested.score != nil {
			c.score = nested.score
		}
		if nested.shopping != "" {
			c.shopping = nested.shopping
		}
	}

	if c.score == nil {
		if v, ok := scoring.ExtractScore(c.chat); ok {
			c.score = &v
		}
	}
	return c, true
}

func tryExtractScoreFromProse(raw string) (candidate, bool) {
	v, ok := scoring.ExtractScore(raw)
	if !ok {
		return candidate{}, false
	}
	return candidate{chat: raw, score: &v, shopping: declaredIn(raw)}, true
}

func fallbackRaw(raw string) candidate {
	return candidate{chat: raw, shopping: declaredIn(raw)}
}

// declaredIn recovers a shopping field from a truncated JSON tail.
func declaredIn(raw string) string {
	m := declaredShopping.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], `\"`, `"`)
}

// decodeObject parses s as a JSON object, retrying once with s treated as the
// body of an escaped JSON string.
func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}

	var unquoted string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &unquoted); err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(unquoted), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// fromObject reads the known fields of obj. It fails only when obj carries
// none of them.
func fromObject(obj map[string]any) (candidate, bool) {
	var c candidate
	for _, k := range chatKeys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			c.chat = s
			break
		}
	}

	c.score = scoreValue(obj["score"])
	if c.score == nil {
		c.score = scoreValue(obj["ai_score"])
	}
	for _, k := range shoppingKeys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			c.shopping = s
			break
		}
	}
	return c, c.chat != "" || c.score != nil || c.shopping != ""
}

func scoreValue(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &f
		}
		if f, ok := scoring.ExtractScore(t); ok {
			return &f
		}
	}
	return nil
}
