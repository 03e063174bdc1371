package shopping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		rule  string
		query string
	}{
		{
			name:  "swap beats later action",
			in:    "swap the sneakers for nude heels and also try a gold necklace",
			rule:  RuleSwap,
			query: "nude heels",
		},
		{
			name:  "swap wins even when an action verb comes first",
			in:    "Add a gold necklace, and swap the flats for heels.",
			rule:  RuleSwap,
			query: "heels",
		},
		{
			name:  "spanish swap",
			in:    "cambia los zapatos por unas sandalias doradas",
			rule:  RuleSwap,
			query: "sandalias doradas",
		},
		{
			name:  "markdown label is not a verb",
			in:    "**Shoe swap:** Swap the chunky shoes for nude sandals to extend your legs.",
			rule:  RuleSwap,
			query: "nude sandals",
		},
		{
			name:  "swap for a shorter one",
			in:    "Score 7/10. Love the jeans but swap the shirt for a shorter one",
			rule:  RuleSwap,
			query: "shorter shirt",
		},
		{
			name:  "change for a fitted one",
			in:    "Change the top for a fitted one",
			rule:  RuleSwap,
			query: "fitted top",
		},
		{
			name:  "plural replacement",
			in:    "Swap the heels for flatter ones, then you're set.",
			rule:  RuleSwap,
			query: "flatter heels",
		},
		{
			name:  "hyphenated descriptor is not a pronoun",
			in:    "Swap the tee for a one-shoulder top.",
			rule:  RuleSwap,
			query: "one-shoulder top",
		},
		{
			name:  "action",
			in:    "Try a camel belt to define your waist.",
			rule:  RuleAction,
			query: "camel belt",
		},
		{
			name:  "multi-word action",
			in:    "Pair it with white sneakers for a relaxed vibe",
			rule:  RuleAction,
			query: "white sneakers",
		},
		{
			name:  "action object follows connector",
			in:    "Add some color with a scarf.",
			rule:  RuleAction,
			query: "scarf",
		},
		{
			name:  "wear it with",
			in:    "Wear it with a belt.",
			rule:  RuleAction,
			query: "belt",
		},
		{
			name:  "discarded item is skipped",
			in:    "Get rid of the hat and try a gold necklace.",
			rule:  RuleAction,
			query: "gold necklace",
		},
		{
			name:  "spanish action",
			in:    "Prueba unos aretes dorados.",
			rule:  RuleAction,
			query: "aretes dorados",
		},
		{
			name:  "descriptor",
			in:    "Those nude sandals would elongate your legs.",
			rule:  RuleDescriptor,
			query: "nude sandals",
		},
		{
			name:  "emphasis stripped",
			in:    "Honestly a **statement necklace** would finish it.",
			rule:  RuleDescriptor,
			query: "statement necklace",
		},
		{
			name:  "spanish trailing adjective",
			in:    "Me encantan las botas negras con ese vestido.",
			rule:  RuleTrailing,
			query: "botas negras",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Find(tt.in)
			require.True(t, ok)
			require.Equal(t, tt.rule, m.Rule)
			require.Equal(t, tt.query, m.Query)
		})
	}
}

func TestFindKeywordWindow(t *testing.T) {
	m, ok := Find("Honestly the blazer is doing all the work here.")
	require.True(t, ok)
	require.Equal(t, RuleKeyword, m.Rule)
	require.Equal(t, "honestly blazer is doing", m.Query)
}

func TestFindNoMatch(t *testing.T) {
	for _, in := range []string{
		"",
		"Thanks, glad you love it!",
		"Your posture is great and the colours suit you.",
		"This is also very sharp.",
		"Get rid of the hat.",
		"Honestly, ditch the belt",
	} {
		_, ok := Find(in)
		require.False(t, ok, in)
		require.Nil(t, QueryPtr(in))
	}
}

func TestCleanPhrase(t *testing.T) {
	tests := map[string]string{
		"The Nude Heels.":         "nude heels",
		"**a gold necklace**":     "gold necklace",
		"with (some) white tees!": "white tees",
		"unas sandalias doradas":  "sandalias doradas",
		"the a an":                "",
	}
	for in, want := range tests {
		require.Equal(t, want, CleanPhrase(in), in)
	}
}

func TestCarryNoun(t *testing.T) {
	require.Equal(t, "a shorter shirt", carryNoun("a shorter one", "shirt"))
	require.Equal(t, "flatter heels", carryNoun("flatter Ones", "heels"))
	require.Equal(t, "nude heels", carryNoun("nude heels", "flats"))
	require.Equal(t, "", carryNoun("", "flats"))
}

func TestExtractIsStable(t *testing.T) {
	in := "Swap the flats for pointed-toe pumps."
	first, ok := Extract(in)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, _ := Extract(in)
		require.Equal(t, first, again)
	}
}

func TestLink(t *testing.T) {
	require.Equal(t, "https://www.amazon.com/s?k=nude+heels&tag=demo-hackathon-20", Link("nude heels", ""))
	require.Equal(t, "https://www.amazon.com/s?k=sandalias+doradas&tag=shop-21", Link(" sandalias doradas ", "shop-21"))
	require.Equal(t, "https://www.amazon.com/s?k=t-shirt+%26+jeans&tag=x", Link("t-shirt & jeans", "x"))
	require.Empty(t, Link("  ", "x"))
}

func TestFindKeywordWindowStopsAtSentence(t *testing.T) {
	m, ok := Find("**Score: 7/10**\n\nLove the jeans. Maybe rethink the top.")
	require.True(t, ok)
	require.Equal(t, RuleKeyword, m.Rule)
	require.Equal(t, "love jeans", m.Query)
}
