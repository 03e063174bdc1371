package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		path     string
		score    float64
		chat     string
		shopping *string
	}{
		{
			name:  "json in string",
			raw:   `{"chat_response": "{\"score\":7,\"chat_response\":\"Great fit!\"}"}`,
			path:  PathJSON,
			score: 7,
			chat:  "Great fit!",
		},
		{
			name:  "doubly escaped json in string",
			raw:   `{"chat_response": "{\\\"score\\\": 9, \\\"chat_response\\\": \\\"Stunning.\\\"}"}`,
			path:  PathJSON,
			score: 9,
			chat:  "Stunning.",
		},
		{
			name:     "fenced json with declared query",
			raw:      "```json\n{\"score\": 8, \"chat_response\": \"Love it!\\nTry a belt.\", \"suggested_item_search\": \"black leather belt\"}\n```",
			path:     PathJSON,
			score:    8,
			chat:     "Love it!\nTry a belt.",
			shopping: strPtr("black leather belt"),
		},
		{
			name:     "analysis key with string score",
			raw:      `{"score": "6", "analysis": "Too casual. Swap the shorts for a mini skirt."}`,
			path:     PathJSON,
			score:    6,
			chat:     "Too casual. Swap the shorts for a mini skirt.",
			shopping: strPtr("mini skirt"),
		},
		{
			name:  "json score missing falls back to chat text",
			raw:   `{"chat_response": "Score: 9/10 chic"}`,
			path:  PathJSON,
			score: 9,
			chat:  "Score: 9/10 chic",
		},
		{
			name:  "json score clamped",
			raw:   `{"score": 14, "chat_response": "ok"}`,
			path:  PathJSON,
			score: 10,
			chat:  "ok",
		},
		{
			name:  "json score rounded to half",
			raw:   `{"score": 7.3, "chat_response": "ok"}`,
			path:  PathJSON,
			score: 7.5,
			chat:  "ok",
		},
		{
			name:     "prose with marker",
			raw:      "**Score: 8.5/10** great look. Try a camel belt.",
			path:     PathProse,
			score:    8.5,
			chat:     "**Score: 8.5/10** great look. Try a camel belt.",
			shopping: strPtr("camel belt"),
		},
		{
			name:  "prose with escaped newlines",
			raw:   `**Score: 7/10**\n\nLove the colours.\n\n\n\nThe fit works.`,
			path:  PathProse,
			score: 7,
			chat:  "**Score: 7/10**\n\nLove the colours.\n\nThe fit works.",
		},
		{
			name:  "braces that are not json",
			raw:   "I love the {bold} colours 8/10",
			path:  PathProse,
			score: 8,
			chat:  "I love the {bold} colours 8/10",
		},
		{
			name:  "default score on ambiguity",
			raw:   "Love the colours, but the fit is off.",
			path:  PathRaw,
			score: 7,
			chat:  "Love the colours, but the fit is off.",
		},
		{
			name:     "dangling shopping tail",
			raw:      `Great look! Swap the flats for heels.", "suggested_item_search": "nude heels"}`,
			path:     PathRaw,
			score:    7,
			chat:     "Great look! Swap the flats for heels.",
			shopping: strPtr("nude heels"),
		},
		{
			name:  "object without chat field keeps its score",
			raw:   `{"score": 8}`,
			path:  PathJSON,
			score: 8,
			chat:  "",
		},
		{
			name:     "prose around a fields-only object",
			raw:      `Looks sharp! {"score": 8, "suggested_item_search": "gold hoops"}`,
			path:     PathJSON,
			score:    8,
			chat:     "Looks sharp!",
			shopping: strPtr("gold hoops"),
		},
		{
			name:  "balanced quotes at the edge survive",
			raw:   `{"chat_response":"Hi \"there\"","score":6}`,
			path:  PathJSON,
			score: 6,
			chat:  `Hi "there"`,
		},
		{
			name:  "empty",
			raw:   "",
			path:  PathRaw,
			score: 7,
			chat:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			require.Equal(t, tt.path, got.Path)
			require.Equal(t, tt.score, got.Score)
			require.Equal(t, tt.chat, got.ChatResponse)
			require.Equal(t, tt.shopping, got.ShoppingQuery)
			require.Equal(t, got.AnalysisResult, Normalize(tt.raw))
		})
	}
}

func TestNormalizeDeclaredQueryWins(t *testing.T) {
	got := Normalize(`{"score": 7, "chat_response": "Swap the flats for heels.", "shopping_query": "white sneakers"}`)
	require.NotNil(t, got.ShoppingQuery)
	require.Equal(t, "white sneakers", *got.ShoppingQuery)
}

func TestNormalizeBlankDeclaredQueryUsesExtractor(t *testing.T) {
	got := Normalize(`{"score": 7, "chat_response": "Swap the flats for heels.", "suggested_item_search": "  "}`)
	require.NotNil(t, got.ShoppingQuery)
	require.Equal(t, "heels", *got.ShoppingQuery)
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		`Hello\nWorld`:                         "Hello\nWorld",
		`a\tb`:                                 "a b",
		`{"chat_response": "Great fit!"}`:      "Great fit!",
		`{"score":7,"chat_response":"Great!"}`: "Great!",
		"```json\nLooks great\n```":            "Looks great",
		`She said "wow" today`:                 `She said "wow" today`,
		"line one   \nline two":                "line one\nline two",
		"a\n\n\n\n\nb":                         "a\n\nb",
		`"quoted all the way"`:                 "quoted all the way",
		`Hi "there"`:                           `Hi "there"`,
		`"Bold" choice, "love" it"`:            `"Bold" choice, "love" it`,
		`\\n`:                                  "",
	}
	for in, want := range tests {
		require.Equal(t, want, Sanitize(in), in)
	}

	require.Equal(t, "Nice.", Sanitize(`Nice.", "score": 8, "shopping_query": null}`))
}

var sanitizeCorpus = []string{
	"",
	" ",
	`"`,
	"```",
	"```\n```",
	`\\\\n`,
	`\\"score\\": 7`,
	`{"chat_response": "{\"score\":7,\"chat_response\":\"Great fit!\"}"}`,
	`{"chat_response": "{\\\"score\\\": 9, \\\"chat_response\\\": \\\"Stunning.\\\"}"}`,
	`Great look! Swap the flats for heels.", "suggested_item_search": "nude heels"}`,
	`"suggested_item_search": "nude he`,
	"**Score: 8/10**\n\n\n\nLove it\\n\\n\\n\\nTry a belt",
	`{"analysis": "\"quoted\"", "critique": "x"}`,
	"{{{}}}",
	`\"\"\"`,
	"\t\t\\t\\t",
	"plain prose, nothing to do.",
	"mixed \\r\\n line \\\\r endings",
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, in := range sanitizeCorpus {
		once := Sanitize(in)
		require.Equal(t, once, Sanitize(once), in)
	}
}

func TestNormalizeChatIsSanitized(t *testing.T) {
	for _, in := range sanitizeCorpus {
		got := Normalize(in)
		require.Equal(t, got.ChatResponse, Sanitize(got.ChatResponse), in)
		require.GreaterOrEqual(t, got.Score, 1.0)
		require.LessOrEqual(t, got.Score, 10.0)
	}
}

func FuzzSanitizeIdempotent(f *testing.F) {
	for _, s := range sanitizeCorpus {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent for %q: %q != %q", in, twice, once)
		}
	})
}
